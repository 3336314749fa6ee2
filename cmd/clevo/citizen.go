package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/hongminglow/clevo-client/internal/booking"
	"github.com/hongminglow/clevo-client/internal/dashboard"
)

func (a *app) citizenDashboard(ctx context.Context) (*dashboard.Citizen, error) {
	d := dashboard.NewCitizen(a.client.Citizen(), a.notes, a.logger)
	return d, outcome(d.Load(ctx))
}

func cmdCitizen(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	d, err := a.citizenDashboard(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Eco-points: %s\n\n", booking.FormatPoints(d.TotalPoints))
	section(a.out, "Available pickup slots")
	renderSlots(a.out, d.AvailableSlots())
	section(a.out, "Upcoming bookings")
	renderBookings(a.out, d.Upcoming())
	section(a.out, "Completed bookings")
	renderBookings(a.out, d.Completed())
	section(a.out, "Rewards")
	renderRewards(a.out, d.Rewards, d.TotalPoints)
	return nil
}

func cmdBook(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	slotID := fs.String("slot", "", "pickup slot id")
	categoryID := fs.String("category", "", "waste category id")
	quantity := fs.String("quantity", "", "estimated quantity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	d, err := a.citizenDashboard(ctx)
	if err != nil {
		return err
	}
	for _, slot := range d.Slots {
		if slot.ID != *slotID {
			continue
		}
		form := d.OpenBooking(ctx, slot)
		form.CategoryID = *categoryID
		form.Quantity = *quantity
		if cat := form.SelectedCategory(); cat != nil {
			fmt.Fprintf(a.out, "Estimated eco-points: %s (%s)\n", booking.FormatPoints(form.Estimate()), cat.Name)
		}
		if !form.CanSubmit() && booking.Bookable(slot) {
			return fmt.Errorf("-category and -quantity are required")
		}
		if !form.Submit(ctx) {
			return errReported
		}
		if form.Booked != nil {
			fmt.Fprintf(a.out, "Confirmation code: %s\n", form.Booked.ConfirmationCode)
		}
		// The booking stands, but the refreshed dashboard could not be loaded.
		if d.Err != "" {
			return errReported
		}
		return nil
	}
	return fmt.Errorf("no pickup slot with id %q", *slotID)
}

func cmdRedeem(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	rewardID := fs.Int64("reward", 0, "reward id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	d, err := a.citizenDashboard(ctx)
	if err != nil {
		return err
	}
	for _, r := range d.Rewards {
		if r.ID == *rewardID {
			if err := outcome(d.Redeem(ctx, r)); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Eco-points: %s\n", booking.FormatPoints(d.TotalPoints))
			return nil
		}
	}
	return fmt.Errorf("no reward with id %d", *rewardID)
}
