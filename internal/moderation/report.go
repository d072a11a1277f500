package moderation

import (
	"context"

	"github.com/alphabot-ai/skillswap/internal/model"
	"golang.org/x/sync/errgroup"
)

// GenerateReport runs the four aggregate reads concurrently. The first failure
// cancels the others and fails the whole report.
func (e *Engine) GenerateReport(ctx context.Context, admin Admin) (model.Report, error) {
	const op = "moderation.generate_report"
	if err := checkAdmin(op, admin); err != nil {
		return model.Report{}, err
	}

	var report model.Report
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := e.repo.CountActiveAccounts(gctx)
		report.ActiveAccounts = n
		return err
	})
	g.Go(func() error {
		counts, err := e.repo.CountSwapsByStatus(gctx)
		report.Swaps = counts
		return err
	})
	g.Go(func() error {
		summary, err := e.repo.SummarizeRatings(gctx)
		report.Ratings = summary
		return err
	})
	g.Go(func() error {
		counts, err := e.repo.CountApprovedSkillsByType(gctx)
		report.Skills = counts
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Report{}, e.fail(ctx, op, admin, newError(ErrServerFault, op, "", err))
	}
	if report.Swaps == nil {
		report.Swaps = []model.SwapStatusCount{}
	}
	if report.Skills == nil {
		report.Skills = []model.SkillTypeCount{}
	}
	report.GeneratedAt = e.now()
	return report, nil
}
