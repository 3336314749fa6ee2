package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/hongminglow/clevo-client/internal/dashboard"
	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/models/dto"
)

func (a *app) authorityDashboard(ctx context.Context) (*dashboard.Authority, error) {
	d := dashboard.NewAuthority(a.client.Authority(), a.notes, a.logger)
	return d, outcome(d.Load(ctx))
}

func cmdAuthority(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	d, err := a.authorityDashboard(ctx)
	if err != nil {
		return err
	}
	byRole := d.UsersByRole()
	fmt.Fprintf(a.out, "Users: %d (%d active) | citizens %d, recyclers %d, authorities %d\n\n",
		len(d.Users), len(d.ActiveUsers()), byRole[models.Citizen], byRole[models.Recycler], byRole[models.Authority])
	section(a.out, "Users")
	renderUsers(a.out, d.Users)
	section(a.out, "Wards")
	renderWards(a.out, d.Wards)
	section(a.out, "Waste categories")
	renderCategories(a.out, d.Categories)
	renderSeries(a.out, "Waste collected per month", d.Stats.WasteTrend)
	renderSeries(a.out, "Waste by type", d.Stats.WasteByType)
	renderSeries(a.out, "Collections by ward", d.Stats.WasteByRegion)
	renderSeries(a.out, "Eco-points by citizen", d.Stats.EcoPointsDistribution)
	return nil
}

func cmdActivate(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	return setActive(ctx, a, fs, args, true)
}

func cmdDeactivate(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	return setActive(ctx, a, fs, args, false)
}

func setActive(ctx context.Context, a *app, fs *flag.FlagSet, args []string, active bool) error {
	id := fs.String("user", "", "user id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("-user is required")
	}
	d := dashboard.NewAuthority(a.client.Authority(), a.notes, a.logger)
	if active {
		return outcome(d.Activate(ctx, *id))
	}
	return outcome(d.Deactivate(ctx, *id))
}

func cmdAddWard(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	var req dto.WardRequest
	fs.StringVar(&req.Name, "name", "", "ward name")
	fs.StringVar(&req.Description, "description", "", "ward description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	d := dashboard.NewAuthority(a.client.Authority(), a.notes, a.logger)
	if err := outcome(d.AddWard(ctx, req)); err != nil {
		return err
	}
	renderWards(a.out, d.Wards)
	return nil
}

func cmdAddCategory(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	var req dto.WasteCategoryRequest
	fs.StringVar(&req.Name, "name", "", "category name")
	fs.StringVar(&req.Description, "description", "", "category description")
	fs.Float64Var(&req.EcoPointsPerUnit, "points", 0, "eco-points per unit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	d := dashboard.NewAuthority(a.client.Authority(), a.notes, a.logger)
	if err := outcome(d.AddWasteCategory(ctx, req)); err != nil {
		return err
	}
	renderCategories(a.out, d.Categories)
	return nil
}
