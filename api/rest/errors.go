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

package rest

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/optakt/ledger-accounts/models/accounts"
)

// statuses maps registry errors to HTTP status codes, in order of precedence.
var statuses = []struct {
	err  error
	code int
}{
	{err: accounts.ErrValidation, code: http.StatusBadRequest},
	{err: accounts.ErrNotFound, code: http.StatusNotFound},
	{err: accounts.ErrUnauthorized, code: http.StatusForbidden},
	{err: accounts.ErrDuplicateName, code: http.StatusConflict},
	{err: accounts.ErrDuplicateIdentifier, code: http.StatusConflict},
	{err: accounts.ErrDuplicateAccountNumber, code: http.StatusConflict},
	{err: accounts.ErrAlreadyClosed, code: http.StatusConflict},
	{err: accounts.ErrCommitFailure, code: http.StatusServiceUnavailable},
}

func httpError(err error) *echo.HTTPError {
	for _, status := range statuses {
		if errors.Is(err, status.err) {
			return echo.NewHTTPError(status.code, err.Error())
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
