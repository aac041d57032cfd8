package echoapi

import (
	"net/http"
	"net/url"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kasozi/gpatrack/core"
	"github.com/kasozi/gpatrack/core/gpa"
	"github.com/kasozi/gpatrack/storage/urlstate"
)

// sessionIDHeader carries the caller's working-session key; the query
// param is a fallback for shared links.
const (
	sessionIDHeader = "X-Session-ID"
	sessionIDParam  = "session"
)

type gpaApi struct {
	svc        *gpa.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerGpaAPI(g *echo.Group, svc *gpa.Service, validate *validator.Validate, translator ut.Translator) {
	api := gpaApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	g.GET("/scale", api.queryScale)

	gg := g.Group("/gpa")
	gg.GET("", api.retrieve)
	gg.DELETE("", api.reset)
	gg.PUT("/record", api.setBaseline)

	gg.POST("/repeat", api.createRepeat)
	gg.PUT("/repeat/:id", api.updateRepeat)
	gg.DELETE("/repeat/:id", api.destroyRepeat)

	gg.POST("/new", api.createNew)
	gg.PUT("/new/:id", api.updateNew)
	gg.DELETE("/new/:id", api.destroyNew)

	gg.GET("/share", api.share)
	gg.POST("/import", api.importState)
	gg.GET("/export", api.export)
}

// Handlers

func (api *gpaApi) queryScale(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, gpa.Scale)
}

func (api *gpaApi) retrieve(ctx echo.Context) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}
	snap, err := api.svc.Get(ctx.Request().Context(), sid)
	if err != nil {
		return errors.Wrap(err, "getting snapshot")
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *gpaApi) reset(ctx echo.Context) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Reset(ctx.Request().Context(), sid); err != nil {
		return errors.Wrap(err, "resetting session")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *gpaApi) setBaseline(ctx echo.Context) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}
	var data gpa.BaselineInput
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BaselineInput")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	snap, err := api.svc.SetBaseline(ctx.Request().Context(), sid, data)
	if err != nil {
		return errors.Wrap(err, "setting baseline")
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *gpaApi) createRepeat(ctx echo.Context) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}
	var data gpa.RepeatCourseInput
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RepeatCourseInput")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	snap, err := api.svc.AddRepeat(ctx.Request().Context(), sid, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, snap)
}

func (api *gpaApi) updateRepeat(ctx echo.Context) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}
	var data gpa.RepeatCourseInput
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RepeatCourseInput")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	snap, err := api.svc.UpdateRepeat(ctx.Request().Context(), sid, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *gpaApi) destroyRepeat(ctx echo.Context) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}
	if _, err = api.svc.DeleteRepeat(ctx.Request().Context(), sid, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *gpaApi) createNew(ctx echo.Context) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}
	var data gpa.NewCourseInput
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourseInput")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	snap, err := api.svc.AddNew(ctx.Request().Context(), sid, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, snap)
}

func (api *gpaApi) updateNew(ctx echo.Context) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}
	var data gpa.NewCourseInput
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourseInput")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	snap, err := api.svc.UpdateNew(ctx.Request().Context(), sid, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *gpaApi) destroyNew(ctx echo.Context) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}
	if _, err = api.svc.DeleteNew(ctx.Request().Context(), sid, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// share serializes the session to URL query parameters so the state can be
// restored later from a link alone.
func (api *gpaApi) share(ctx echo.Context) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}
	snap, err := api.svc.Get(ctx.Request().Context(), sid)
	if err != nil {
		return errors.Wrap(err, "getting snapshot")
	}
	vals, err := urlstate.Encode(snap)
	if err != nil {
		return errors.Wrap(err, "encoding snapshot")
	}
	return ctx.JSON(http.StatusOK, ShareResponse{Query: vals.Encode()})
}

func (api *gpaApi) importState(ctx echo.Context) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}
	var data ImportRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ImportRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	vals, err := url.ParseQuery(data.Query)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "query", Error: "malformed query string"})
	}
	snap, err := urlstate.Decode(vals)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "query", Error: "malformed course list"})
	}

	snap, err = api.svc.Import(ctx.Request().Context(), sid, snap)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

// sessionID extracts the caller's session key.
func sessionID(ctx echo.Context) (string, error) {
	if sid := core.CleanString(ctx.Request().Header.Get(sessionIDHeader)); sid != "" {
		return sid, nil
	}
	if sid := core.CleanString(ctx.QueryParam(sessionIDParam)); sid != "" {
		return sid, nil
	}
	return "", errMissingSessionID
}
