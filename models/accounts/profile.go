// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package accounts

// Profile holds the optional profile and authentication attributes of an
// account. A nil field is absent. When used as an update, only the non-nil
// fields are applied.
type Profile struct {
	FirstName     *string `json:"first_name,omitempty" validate:"omitempty,max=128"`
	LastName      *string `json:"last_name,omitempty" validate:"omitempty,max=128"`
	DisplayName   *string `json:"display_name,omitempty" validate:"omitempty,max=128"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,e164"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	PasswordHash  *string `json:"password_hash,omitempty" validate:"omitempty,max=512"`
	AccountNumber *string `json:"account_number,omitempty" validate:"omitempty,min=1,max=64,printascii"`
	AuthID        *uint32 `json:"auth_id,omitempty"`
	ValidEmail    *bool   `json:"valid_email,omitempty"`
	ValidPhone    *bool   `json:"valid_phone,omitempty"`
}

// Merge returns a copy of the profile in which every field set in update
// replaces the current value.
func (p Profile) Merge(update Profile) Profile {
	merged := p.Clone()
	if update.FirstName != nil {
		merged.FirstName = String(*update.FirstName)
	}
	if update.LastName != nil {
		merged.LastName = String(*update.LastName)
	}
	if update.DisplayName != nil {
		merged.DisplayName = String(*update.DisplayName)
	}
	if update.Phone != nil {
		merged.Phone = String(*update.Phone)
	}
	if update.Email != nil {
		merged.Email = String(*update.Email)
	}
	if update.PasswordHash != nil {
		merged.PasswordHash = String(*update.PasswordHash)
	}
	if update.AccountNumber != nil {
		merged.AccountNumber = String(*update.AccountNumber)
	}
	if update.AuthID != nil {
		merged.AuthID = Uint32(*update.AuthID)
	}
	if update.ValidEmail != nil {
		merged.ValidEmail = Bool(*update.ValidEmail)
	}
	if update.ValidPhone != nil {
		merged.ValidPhone = Bool(*update.ValidPhone)
	}
	return merged
}

// Clone returns a deep copy of the profile, so that the copy shares no
// pointers with the original.
func (p Profile) Clone() Profile {
	var clone Profile
	if p.FirstName != nil {
		clone.FirstName = String(*p.FirstName)
	}
	if p.LastName != nil {
		clone.LastName = String(*p.LastName)
	}
	if p.DisplayName != nil {
		clone.DisplayName = String(*p.DisplayName)
	}
	if p.Phone != nil {
		clone.Phone = String(*p.Phone)
	}
	if p.Email != nil {
		clone.Email = String(*p.Email)
	}
	if p.PasswordHash != nil {
		clone.PasswordHash = String(*p.PasswordHash)
	}
	if p.AccountNumber != nil {
		clone.AccountNumber = String(*p.AccountNumber)
	}
	if p.AuthID != nil {
		clone.AuthID = Uint32(*p.AuthID)
	}
	if p.ValidEmail != nil {
		clone.ValidEmail = Bool(*p.ValidEmail)
	}
	if p.ValidPhone != nil {
		clone.ValidPhone = Bool(*p.ValidPhone)
	}
	return clone
}

// Number returns the account number, or an empty string if it is absent.
func (p Profile) Number() string {
	if p.AccountNumber == nil {
		return ""
	}
	return *p.AccountNumber
}

// String returns a pointer to the given string.
func String(s string) *string {
	return &s
}

// Uint32 returns a pointer to the given integer.
func Uint32(u uint32) *uint32 {
	return &u
}

// Bool returns a pointer to the given boolean.
func Bool(b bool) *bool {
	return &b
}
