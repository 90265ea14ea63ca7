package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/club-backoffice/internal/dto"
	apierrors "github.com/yukikurage/club-backoffice/internal/errors"
	"github.com/yukikurage/club-backoffice/internal/report"
	"github.com/yukikurage/club-backoffice/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// AttendanceReport returns training attendance as JSON, xlsx or pdf
func (h *ReportHandler) AttendanceReport(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "xlsx" && format != "pdf" {
		apierrors.BadRequest(c, fmt.Sprintf("Unsupported format %q", format))
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		apierrors.BadRequest(c, services.ErrInvalidReportYear.Error())
		return
	}

	month := 0
	if raw := c.Query("month"); raw != "" {
		month, err = strconv.Atoi(raw)
		if err != nil || month < 1 {
			apierrors.BadRequest(c, services.ErrInvalidReportMonth.Error())
			return
		}
	}

	teamID, ok := queryID(c, "team_id")
	if !ok {
		return
	}

	result, err := h.reportService.AttendanceReport(actor, services.AttendanceReportInput{
		Year:   year,
		Month:  month,
		TeamID: teamID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	switch format {
	case "json":
		respondData(c, http.StatusOK, dto.ToAttendanceReportDTO(result))
	case "xlsx":
		sendReport(c, result, "xlsx", report.ContentTypeXLSX, report.WriteXLSX)
	case "pdf":
		sendReport(c, result, "pdf", report.ContentTypePDF, report.WritePDF)
	}
}

type reportWriter func(w io.Writer, a *report.Attendance) error

func sendReport(c *gin.Context, result *report.Attendance, ext, contentType string, write reportWriter) {
	var buf bytes.Buffer
	if err := write(&buf, result); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.Filename(ext)))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
