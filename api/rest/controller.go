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
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/optakt/ledger-accounts/models/accounts"
	"github.com/optakt/ledger-accounts/service/registry"
)

// Validator validates decoded request bodies.
type Validator interface {
	Struct(s interface{}) error
}

// Controller routes requests to the registry of the participant named in the
// request path.
type Controller struct {
	registries map[accounts.Party]Registry
	validate   Validator
}

func NewController(registries map[accounts.Party]Registry, validate Validator) *Controller {
	c := Controller{
		registries: registries,
		validate:   validate,
	}
	return &c
}

// Register adds the routes of the controller to the given echo instance.
func (c *Controller) Register(e *echo.Echo) {
	g := e.Group("/nodes/:party/accounts")
	g.POST("", c.CreateAccount)
	g.GET("", c.FindAccounts)
	g.GET("/:id", c.GetAccount)
	g.PATCH("/:id/profile", c.UpdateProfile)
	g.POST("/:id/close", c.CloseAccount)
	g.POST("/:id/activate", c.ActivateAccount)
	g.POST("/:id/deactivate", c.DeactivateAccount)
	g.POST("/:id/rehost", c.RehostAccount)
	g.POST("/:id/share", c.ShareAccount)
}

func (c *Controller) CreateAccount(ctx echo.Context) error {

	reg, err := c.registry(ctx)
	if err != nil {
		return err
	}

	var req CreateRequest
	err = c.bind(ctx, &req)
	if err != nil {
		return err
	}

	host := req.Host
	if host == "" {
		host = accounts.Party(ctx.Param("party"))
	}
	var options []registry.CreateOption
	if req.Identifier != "" {
		id, err := uuid.Parse(req.Identifier)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		options = append(options, registry.WithIdentifier(id))
	}

	account, err := reg.CreateAccount(ctx.Request().Context(), req.Name, host, req.Profile, options...)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(http.StatusCreated, newAccountResponse(account))
}

func (c *Controller) GetAccount(ctx echo.Context) error {

	reg, id, err := c.target(ctx)
	if err != nil {
		return err
	}

	account, err := reg.LookupByIdentifier(id)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(http.StatusOK, newAccountResponse(account))
}

// FindAccounts looks accounts up by exactly one of the query parameters
// `name` (optionally with `host`), `number` or `prefix`.
func (c *Controller) FindAccounts(ctx echo.Context) error {

	reg, err := c.registry(ctx)
	if err != nil {
		return err
	}

	name := ctx.QueryParam("name")
	host := ctx.QueryParam("host")
	number := ctx.QueryParam("number")
	prefix := ctx.QueryParam("prefix")

	var found []*accounts.Account
	switch {
	case name != "" && host != "":
		account, err := reg.LookupByHostAndName(accounts.Party(host), name)
		if err != nil {
			return httpError(err)
		}
		found = []*accounts.Account{account}
	case name != "":
		found, err = reg.LookupByName(name)
	case number != "":
		account, err := reg.LookupByAccountNumber(number)
		if err != nil {
			return httpError(err)
		}
		found = []*accounts.Account{account}
	case prefix != "":
		found, err = reg.SearchByName(prefix)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "need one of name, number or prefix")
	}
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(http.StatusOK, newAccountsResponse(found))
}

func (c *Controller) UpdateProfile(ctx echo.Context) error {

	reg, id, err := c.target(ctx)
	if err != nil {
		return err
	}

	var update accounts.Profile
	err = c.bind(ctx, &update)
	if err != nil {
		return err
	}

	account, err := reg.UpdateProfile(ctx.Request().Context(), id, update)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(http.StatusOK, newAccountResponse(account))
}

func (c *Controller) CloseAccount(ctx echo.Context) error {
	return c.transition(ctx, func(reg Registry) func(context.Context, uuid.UUID) (*accounts.Account, error) {
		return reg.CloseAccount
	})
}

func (c *Controller) ActivateAccount(ctx echo.Context) error {
	return c.transition(ctx, func(reg Registry) func(context.Context, uuid.UUID) (*accounts.Account, error) {
		return reg.ActivateAccount
	})
}

func (c *Controller) DeactivateAccount(ctx echo.Context) error {
	return c.transition(ctx, func(reg Registry) func(context.Context, uuid.UUID) (*accounts.Account, error) {
		return reg.DeactivateAccount
	})
}

func (c *Controller) RehostAccount(ctx echo.Context) error {

	reg, id, err := c.target(ctx)
	if err != nil {
		return err
	}

	var req RehostRequest
	err = c.bind(ctx, &req)
	if err != nil {
		return err
	}

	account, err := reg.RehostAccount(ctx.Request().Context(), id, req.Host)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(http.StatusOK, newAccountResponse(account))
}

func (c *Controller) ShareAccount(ctx echo.Context) error {

	reg, id, err := c.target(ctx)
	if err != nil {
		return err
	}

	var req ShareRequest
	err = c.bind(ctx, &req)
	if err != nil {
		return err
	}

	err = reg.ShareAccount(ctx.Request().Context(), id, req.Participants...)
	if err != nil {
		return httpError(err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (c *Controller) transition(ctx echo.Context, op func(Registry) func(context.Context, uuid.UUID) (*accounts.Account, error)) error {

	reg, id, err := c.target(ctx)
	if err != nil {
		return err
	}

	account, err := op(reg)(ctx.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(http.StatusOK, newAccountResponse(account))
}

func (c *Controller) registry(ctx echo.Context) (Registry, error) {
	party := accounts.Party(ctx.Param("party"))
	reg, ok := c.registries[party]
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown participant (%s)", party))
	}
	return reg, nil
}

func (c *Controller) target(ctx echo.Context) (Registry, uuid.UUID, error) {
	reg, err := c.registry(ctx)
	if err != nil {
		return nil, uuid.Nil, err
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid account identifier: %s", err))
	}
	return reg, id, nil
}

func (c *Controller) bind(ctx echo.Context, req interface{}) error {
	err := ctx.Bind(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("could not decode request: %s", err))
	}
	err = c.validate.Struct(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid request: %s", err))
	}
	return nil
}
