package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"boqtracker/reconcile"
	"boqtracker/services"
)

// buildReportData maps a reconciled BOQ onto the report layout.
func buildReportData(d *Deps, snap ProjectSnapshot, totals reconcile.ProjectTotals) services.ReportData {
	now := d.Now()
	return services.BuildReportData(services.ReportMeta{
		Title:           "Planned vs Actual: " + snap.BOQTitle,
		ReferenceNumber: services.ReportReference(snap.ProjectReference, snap.BOQID, now),
		CreatedDate:     now.Format("02 Jan 2006"),
		CompanyName:     d.CompanyName,
		CurrencySymbol:  d.CurrencySymbol,
	}, totals)
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, `"`, "")
	return s
}

// HandleReport renders the reconciliation of a BOQ as pdf, excel or html.
// GET /api/boqs/{id}/report/{format}
func HandleReport(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		boqID := e.Request.PathValue("id")
		format := e.Request.PathValue("format")
		logFields := []zap.Field{zap.String("boq_id", boqID), zap.String("format", format)}

		switch format {
		case "pdf", "excel", "html":
		default:
			return respondError(e, d.Logger, fmt.Errorf("%w: unknown report format %q", ErrInvalidRequest, format), logFields...)
		}

		snap, totals, err := reconcileBOQ(e, d, boqID)
		if err != nil {
			return respondError(e, d.Logger, err, logFields...)
		}
		data := buildReportData(d, snap, totals)
		base := fmt.Sprintf("Reconciliation_%s_%s", sanitizeFilename(snap.BOQTitle), d.Now().Format("2006-01-02"))

		switch format {
		case "pdf":
			pdfBytes, err := services.GenerateReconciliationPDF(data)
			if err != nil {
				return respondError(e, d.Logger, err, logFields...)
			}
			return writeAttachment(e, "application/pdf", base+".pdf", pdfBytes)

		case "excel":
			xlsxBytes, err := services.GenerateReconciliationExcel(data)
			if err != nil {
				return respondError(e, d.Logger, err, logFields...)
			}
			return writeAttachment(e, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", base+".xlsx", xlsxBytes)

		default:
			var buf bytes.Buffer
			if err := services.ReconciliationHTML(data).Render(e.Request.Context(), &buf); err != nil {
				return respondError(e, d.Logger, err, logFields...)
			}
			return e.HTML(http.StatusOK, buf.String())
		}
	}
}

func writeAttachment(e *core.RequestEvent, contentType, filename string, body []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	e.Response.WriteHeader(http.StatusOK)
	_, err := e.Response.Write(body)
	return err
}
