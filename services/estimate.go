package services

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ProjectInput is everything needed to estimate a project.
type ProjectInput struct {
	Name        string
	Infra       []InfrastructureItem
	Labor       []LaborItem
	UnitPrices  *UnitPriceTable
	LaborPrices LaborPriceTable
}

// InfraLine is a priced infrastructure item.
type InfraLine struct {
	Item      InfrastructureItem
	Breakdown CostBreakdown
	Result    CalculationResult
}

// LaborLine is a priced labor item.
type LaborLine struct {
	Item LaborItem
	Rate float64
	Cost float64
}

// ProjectEstimate is the monthly roll-up shown on the dashboard.
type ProjectEstimate struct {
	Name             string
	InfraLines       []InfraLine
	InfraByCategory  map[Category]float64
	InfraMonthly     float64
	LaborLines       []LaborLine
	ManualLabor      float64
	AutoStaffing     AutoStaffingStats
	AutoStaffingCost float64
	LaborTotal       float64
	GrandTotal       float64
}

// EstimateProject prices every item of a project and rolls the figures up.
// Auto staffing is added on top of any manually entered PM/BA/Tester effort.
func EstimateProject(in ProjectInput) ProjectEstimate {
	est := ProjectEstimate{
		Name:            in.Name,
		InfraByCategory: make(map[Category]float64, len(Categories)),
	}

	for _, it := range in.Infra {
		b := CalcItemBreakdown(it, in.UnitPrices)
		unit := b.UnitPrice()
		res := CalculationResult{UnitPrice: unit, TotalPrice: unit * float64(it.EffectiveQuantity())}
		est.InfraLines = append(est.InfraLines, InfraLine{Item: it, Breakdown: b, Result: res})
		est.InfraByCategory[it.Category] += res.TotalPrice
		est.InfraMonthly += res.TotalPrice
	}

	for _, l := range in.Labor {
		cost := CalcLaborCost(l, in.LaborPrices)
		est.LaborLines = append(est.LaborLines, LaborLine{Item: l, Rate: in.LaborPrices.Rate(l.Role), Cost: cost})
		est.ManualLabor += cost
	}

	est.AutoStaffing = ComputeAutoStaffing(in.Labor)
	est.AutoStaffingCost = PriceAutoStaffing(est.AutoStaffing, in.LaborPrices)
	est.LaborTotal = est.ManualLabor + est.AutoStaffingCost
	est.GrandTotal = est.InfraMonthly + est.LaborTotal
	return est
}

// EstimateProjects estimates many projects concurrently, at most limit at a
// time (limit <= 0 means unbounded). Results keep the order of inputs.
func EstimateProjects(ctx context.Context, inputs []ProjectInput, limit int) ([]ProjectEstimate, error) {
	out := make([]ProjectEstimate, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = EstimateProject(inputs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
