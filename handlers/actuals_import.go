package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"boqtracker/services"
)

// ErrImportRejected is returned when at least one row of an actuals upload
// is invalid or matches no item. Nothing is saved in that case.
var ErrImportRejected = errors.New("actuals import rejected")

// ActualsService writes uploaded actual costs onto BOQ items.
type ActualsService struct {
	app    core.App
	logger *zap.Logger
}

func NewActualsService(app core.App, logger *zap.Logger) *ActualsService {
	return &ActualsService{app: app, logger: logger}
}

// Import saves every row of imp onto the item it names, matching on item
// id first and then on description (case-insensitive). Rows that match no
// item, match several items by description, or target an item already
// claimed by an earlier row are added to imp.Errors. The upload is
// all-or-nothing.
func (s *ActualsService) Import(ctx context.Context, boqID string, imp *services.ActualsImport) (int, error) {
	if imp.ErrorRows > 0 {
		return 0, ErrImportRejected
	}

	updated := 0
	err := s.app.RunInTransaction(func(txApp core.App) error {
		if _, err := txApp.FindRecordById("boqs", boqID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("boq %q: %w", boqID, ErrNotFound)
			}
			return fmt.Errorf("load boq %q: %w", boqID, err)
		}

		var items []*core.Record
		err := txApp.RecordQuery("boq_items").
			AndWhere(dbx.HashExp{"boq": boqID}).
			WithContext(ctx).
			All(&items)
		if err != nil {
			return fmt.Errorf("load boq_items: %w", err)
		}

		byID := make(map[string]*core.Record, len(items))
		byDescription := make(map[string][]*core.Record, len(items))
		for _, it := range items {
			byID[it.Id] = it
			key := normalizeDescription(it.GetString("description"))
			byDescription[key] = append(byDescription[key], it)
		}

		matched := make([]*core.Record, len(imp.Rows))
		claimedBy := make(map[string]int, len(imp.Rows))
		for i, row := range imp.Rows {
			item, ok := byID[row.ItemID]
			if !ok && row.Description != "" {
				candidates := byDescription[normalizeDescription(row.Description)]
				if len(candidates) > 1 {
					imp.AddError(services.ImportError{
						Row:     row.Row,
						Field:   "Description",
						Message: "Description matches more than one BOQ item; use Item ID",
					})
					continue
				}
				if len(candidates) == 1 {
					item, ok = candidates[0], true
				}
			}
			if !ok {
				imp.AddError(services.ImportError{
					Row:     row.Row,
					Field:   "Item ID",
					Message: "No BOQ item matches this row",
				})
				continue
			}
			if first, dup := claimedBy[item.Id]; dup {
				imp.AddError(services.ImportError{
					Row:     row.Row,
					Field:   "Item ID",
					Message: fmt.Sprintf("Row targets the same BOQ item as row %d", first),
				})
				continue
			}
			claimedBy[item.Id] = row.Row
			matched[i] = item
		}
		if imp.ErrorRows > 0 {
			return ErrImportRejected
		}

		for i, row := range imp.Rows {
			item := matched[i]
			item.Set("actual", actualFromRow(row))
			if err := txApp.Save(item); err != nil {
				return fmt.Errorf("save boq item %q: %w", item.Id, err)
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("actuals imported",
		zap.String("boq_id", boqID),
		zap.String("file", imp.FileName),
		zap.Int("updated", updated),
	)
	return updated, nil
}

func normalizeDescription(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// actualFromRow keeps amounts as exact JSON numbers.
func actualFromRow(row services.ActualsRow) map[string]any {
	actual := map[string]any{
		"materials_total": json.RawMessage(row.Materials.String()),
		"labour_total":    json.RawMessage(row.Labour.String()),
	}
	if row.Miscellaneous.Valid {
		actual["miscellaneous_amount"] = json.RawMessage(row.Miscellaneous.Decimal.String())
	}
	if row.Transport.Valid {
		actual["transport_amount"] = json.RawMessage(row.Transport.Decimal.String())
	}
	return actual
}

type ActualsImportResponse struct {
	BOQID     string `json:"boq_id"`
	FileName  string `json:"file_name"`
	TotalRows int    `json:"total_rows"`
	Updated   int    `json:"updated"`
}

// HandleActualsImport accepts a .csv or .xlsx upload (form field "file")
// of actual costs per item. A rejected upload answers 422 with the row
// errors, or with an .xlsx error report when ?report=xlsx.
// POST /api/boqs/{id}/actuals/import
func HandleActualsImport(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		boqID := e.Request.PathValue("id")
		logFields := []zap.Field{zap.String("boq_id", boqID)}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return respondError(e, d.Logger, fmt.Errorf("%w: file upload required: %v", ErrInvalidRequest, err), logFields...)
		}
		defer file.Close()

		imp, err := services.ParseActualsFile(file, header.Filename)
		if err != nil {
			return respondError(e, d.Logger, fmt.Errorf("%w: %v", ErrInvalidRequest, err), logFields...)
		}

		updated, err := d.Actuals.Import(e.Request.Context(), boqID, imp)
		if errors.Is(err, ErrImportRejected) {
			if e.Request.URL.Query().Get("report") == "xlsx" {
				report, err := services.GenerateErrorReport(imp.Errors)
				if err != nil {
					return respondError(e, d.Logger, err, logFields...)
				}
				e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
				e.Response.Header().Set("Content-Disposition", `attachment; filename="import_errors.xlsx"`)
				e.Response.WriteHeader(http.StatusUnprocessableEntity)
				_, err = e.Response.Write(report)
				return err
			}
			return e.JSON(http.StatusUnprocessableEntity, imp)
		}
		if err != nil {
			return respondError(e, d.Logger, err, logFields...)
		}

		return e.JSON(http.StatusOK, ActualsImportResponse{
			BOQID:     boqID,
			FileName:  imp.FileName,
			TotalRows: imp.TotalRows,
			Updated:   updated,
		})
	}
}

// HandleActualsTemplate serves the blank .xlsx upload template.
// GET /api/actuals/template
func HandleActualsTemplate(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := services.GenerateImportTemplate()
		if err != nil {
			return respondError(e, d.Logger, err)
		}
		return writeAttachment(e, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "actuals_template.xlsx", data)
	}
}
