package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/tideline/datetime"
	"github.com/tidepool-org/tideline/errors"
	"github.com/tidepool-org/tideline/report"
	"github.com/tidepool-org/tideline/settings"
)

const MIMEApplicationXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	reports report.Service
	logger  *zap.SugaredLogger
}

type Params struct {
	fx.In

	Reports report.Service
	Logger  *zap.SugaredLogger
}

func NewHandler(p Params) *Handler {
	return &Handler{
		reports: p.Reports,
		logger:  p.Logger,
	}
}

func RegisterHandlers(e *echo.Echo, h *Handler) {
	users := e.Group("/v1/users/:userId")
	users.GET("/basal/total", h.GetBasalTotal)
	users.GET("/basal/actual", h.GetBasalActual)
	users.GET("/settings/intervals", h.GetSettingsIntervals)
	users.GET("/report", h.GetReport)
	users.GET("/report.xlsx", h.GetReportXLSX)
}

// WindowParams are the query parameters shared by every user data endpoint
type WindowParams struct {
	Start              string   `query:"start"`
	End                string   `query:"end"`
	MidnightToMidnight bool     `query:"midnightToMidnight"`
	Excluded           []string `query:"excluded"`
}

// GetBasalTotal
// (GET /v1/users/{userId}/basal/total)
func (h *Handler) GetBasalTotal(ec echo.Context) error {
	ctx := ec.Request().Context()
	q, err := parseQuery(ec)
	if err != nil {
		return err
	}

	result, err := h.reports.Total(ctx, q)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, result)
}

// GetBasalActual
// (GET /v1/users/{userId}/basal/actual)
func (h *Handler) GetBasalActual(ec echo.Context) error {
	ctx := ec.Request().Context()
	q, err := parseQuery(ec)
	if err != nil {
		return err
	}

	result, err := h.reports.Actual(ctx, q.UserId, q.Start, q.End)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, result)
}

// GetSettingsIntervals
// (GET /v1/users/{userId}/settings/intervals)
func (h *Handler) GetSettingsIntervals(ec echo.Context) error {
	ctx := ec.Request().Context()
	q, err := parseQuery(ec)
	if err != nil {
		return err
	}

	intervals, err := h.reports.SettingsIntervals(ctx, q.UserId, q.Start, q.End)
	if err != nil {
		return err
	}
	if intervals == nil {
		intervals = []settings.Interval{}
	}

	return ec.JSON(http.StatusOK, intervals)
}

// GetReport
// (GET /v1/users/{userId}/report)
func (h *Handler) GetReport(ec echo.Context) error {
	ctx := ec.Request().Context()
	q, err := parseQuery(ec)
	if err != nil {
		return err
	}

	r, err := h.reports.Report(ctx, q)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, r)
}

// GetReportXLSX
// (GET /v1/users/{userId}/report.xlsx)
func (h *Handler) GetReportXLSX(ec echo.Context) error {
	ctx := ec.Request().Context()
	q, err := parseQuery(ec)
	if err != nil {
		return err
	}

	r, err := h.reports.Report(ctx, q)
	if err != nil {
		return err
	}

	buf := &bytes.Buffer{}
	if err := r.WriteXLSX(buf); err != nil {
		h.logger.Errorw("unable to write report", "userId", q.UserId, "error", err)
		return fmt.Errorf("%w: unable to write report", errors.InternalServerError)
	}

	filename := fmt.Sprintf("basal-%s-%s.xlsx", q.Start.Format(time.DateOnly), q.End.Format(time.DateOnly))
	ec.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ec.Blob(http.StatusOK, MIMEApplicationXLSX, buf.Bytes())
}

func parseQuery(ec echo.Context) (report.Query, error) {
	params := WindowParams{}
	if err := (&echo.DefaultBinder{}).BindQueryParams(ec, &params); err != nil {
		return report.Query{}, fmt.Errorf("%w: error parsing parameters", errors.BadRequest)
	}

	q := report.Query{
		UserId:             ec.Param("userId"),
		MidnightToMidnight: params.MidnightToMidnight,
	}
	if q.UserId == "" {
		return report.Query{}, fmt.Errorf("%w: missing user id", errors.BadRequest)
	}

	var err error
	if q.Start, err = parseTime("start", params.Start); err != nil {
		return report.Query{}, err
	}
	if q.End, err = parseTime("end", params.End); err != nil {
		return report.Query{}, err
	}
	for _, e := range params.Excluded {
		day, err := parseTime("excluded", e)
		if err != nil {
			return report.Query{}, err
		}
		q.Excluded = append(q.Excluded, day)
	}

	return q, nil
}

func parseTime(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: missing %s", errors.BadRequest, name)
	}
	t, err := datetime.Parse(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid %s", errors.BadRequest, name)
	}
	return t, nil
}
