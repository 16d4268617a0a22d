package services

import (
	"context"
	"time"

	"backoffice/internal/domain/models"
	"backoffice/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Dashboard summarizes the order books.
type Dashboard struct {
	CnamOrders    int       `json:"cnamOrders"`
	EssafwaOrders int       `json:"essafwaOrders"`
	GlassesOrders int       `json:"glassesOrders"`
	Optics        int       `json:"optics"`
	ActiveOptics  int       `json:"activeOptics"`
	CnamDue       float64   `json:"cnamDue"`
	EssafwaDue    float64   `json:"essafwaDue"`
	GlassesDue    float64   `json:"glassesDue"`
	UnpaidGlasses int       `json:"unpaidGlasses"`
	GeneratedAt   time.Time `json:"generatedAt"`
}

type DashboardService struct {
	Cnam    CnamLister
	Essafwa EssafwaLister
	Glasses GlassesLister
	Optics  OpticLister
	Logger  *zap.Logger
}

// Load fetches the four listings concurrently. The first failure cancels
// the others and is returned as-is.
func (s DashboardService) Load(ctx context.Context, requestID string) (Dashboard, error) {
	var (
		cnam    []models.CnamOrder
		essafwa []models.EssafwaOrder
		glasses []models.GlassesOrder
		optics  []models.Optic
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cnam, err = s.Cnam.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		essafwa, err = s.Essafwa.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		glasses, err = s.Glasses.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		optics, err = s.Optics.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		CnamOrders:    len(cnam),
		EssafwaOrders: len(essafwa),
		GlassesOrders: len(glasses),
		Optics:        len(optics),
		GeneratedAt:   utils.NowUTC(),
	}
	d.CnamDue = dueOf(CnamRows(cnam, 0))
	d.EssafwaDue = dueOf(EssafwaRows(essafwa, 0))
	for _, o := range glasses {
		if !o.Paid {
			d.UnpaidGlasses++
			d.GlassesDue += o.TotalPrice
		}
	}
	for _, o := range optics {
		if o.Active {
			d.ActiveOptics++
		}
	}

	utils.LogEvent(s.Logger, requestID, "dashboard", "load", "dashboard computed")
	return d, nil
}

func dueOf(rows []ReportRow) float64 {
	var due float64
	for _, r := range rows {
		due += r.Due()
	}
	return due
}
