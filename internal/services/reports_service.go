package services

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/domain/models"
	"backoffice/internal/utils"
)

type CnamLister interface {
	List(ctx context.Context) ([]models.CnamOrder, error)
}

type EssafwaLister interface {
	List(ctx context.Context) ([]models.EssafwaOrder, error)
}

type GlassesLister interface {
	List(ctx context.Context) ([]models.GlassesOrder, error)
}

type OpticLister interface {
	List(ctx context.Context) ([]models.Optic, error)
}

// ReportFilter narrows a listing before it is printed.
type ReportFilter struct {
	UnpaidOnly bool
	OpticID    int64
}

// ReportsService fetches order listings from the backend and prints them.
type ReportsService struct {
	Cnam    CnamLister
	Essafwa EssafwaLister
	Glasses GlassesLister
	Docs    DocsService
	Now     func() time.Time
}

func (s ReportsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

func (s ReportsService) CnamReport(ctx context.Context, f ReportFilter) (models.Document, error) {
	orders, err := s.Cnam.List(ctx)
	if err != nil {
		return models.Document{}, err
	}
	return s.Docs.RenderOrderReport(OrderReport{
		Kind: "cnam", Title: "CNAM orders", GeneratedAt: s.now(),
		Rows: filterRows(CnamRows(orders, f.OpticID), f),
	})
}

func (s ReportsService) EssafwaReport(ctx context.Context, f ReportFilter) (models.Document, error) {
	orders, err := s.Essafwa.List(ctx)
	if err != nil {
		return models.Document{}, err
	}
	return s.Docs.RenderOrderReport(OrderReport{
		Kind: "essafwa", Title: "Essafwa orders", GeneratedAt: s.now(),
		Rows: filterRows(EssafwaRows(orders, f.OpticID), f),
	})
}

func (s ReportsService) GlassesReport(ctx context.Context, f ReportFilter) (models.Document, error) {
	orders, err := s.Glasses.List(ctx)
	if err != nil {
		return models.Document{}, err
	}
	return s.Docs.RenderOrderReport(OrderReport{
		Kind: "glasses", Title: "Glasses orders", GeneratedAt: s.now(),
		Rows: filterRows(GlassesRows(orders, f.OpticID), f),
	})
}

func filterRows(rows []ReportRow, f ReportFilter) []ReportRow {
	if !f.UnpaidOnly {
		return rows
	}
	out := rows[:0:0]
	for _, r := range rows {
		if r.Due() > 0 {
			out = append(out, r)
		}
	}
	return out
}

// CnamRows converts CNAM orders; opticID 0 keeps every optic.
func CnamRows(orders []models.CnamOrder, opticID int64) []ReportRow {
	rows := make([]ReportRow, 0, len(orders))
	for _, o := range orders {
		if opticID != 0 && o.OpticID != opticID {
			continue
		}
		rows = append(rows, ReportRow{
			Reference: fmt.Sprintf("C-%d", o.ID),
			Party:     utils.Fallback(o.PatientName, "-") + " / " + utils.Fallback(o.CnamNumber, "-"),
			Date:      utils.FormatDate(o.CreatedAt),
			Total:     o.TotalPrice,
			Paid:      o.PaidAmount,
			Status:    o.Status,
		})
	}
	return rows
}

// EssafwaRows converts Essafwa orders. An order flagged allPaid counts as
// fully paid whatever its paidAmount says.
func EssafwaRows(orders []models.EssafwaOrder, opticID int64) []ReportRow {
	rows := make([]ReportRow, 0, len(orders))
	for _, o := range orders {
		if opticID != 0 && o.OpticID != opticID {
			continue
		}
		paid := o.PaidAmount
		if o.AllPaid {
			paid = o.TotalPrice
		}
		rows = append(rows, ReportRow{
			Reference: fmt.Sprintf("E-%d", o.ID),
			Party:     utils.Fallback(o.ClientName, "-"),
			Date:      utils.FormatDate(o.CreatedAt),
			Total:     o.TotalPrice,
			Paid:      paid,
			Status:    o.Status,
		})
	}
	return rows
}

// GlassesRows converts glasses orders; they are either paid or not.
func GlassesRows(orders []models.GlassesOrder, opticID int64) []ReportRow {
	rows := make([]ReportRow, 0, len(orders))
	for _, o := range orders {
		if opticID != 0 && o.OpticID != opticID {
			continue
		}
		paid := 0.0
		if o.Paid {
			paid = o.TotalPrice
		}
		party := utils.Fallback(o.ClientName, "-")
		if o.OpticName != "" {
			party = o.OpticName + " / " + party
		}
		rows = append(rows, ReportRow{
			Reference: fmt.Sprintf("G-%d", o.ID),
			Party:     party,
			Date:      utils.FormatDate(o.CreatedAt),
			Total:     o.TotalPrice,
			Paid:      paid,
			Status:    o.Status,
		})
	}
	return rows
}
