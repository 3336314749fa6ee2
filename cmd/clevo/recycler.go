package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/hongminglow/clevo-client/internal/dashboard"
	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/models/dto"
	"github.com/hongminglow/clevo-client/internal/toast"
)

const timeLayout = "2006-01-02 15:04"

// recyclerDashboard loads the dashboard for the signed-in recycler. Without
// an explicit ward the ward of the recycler's first slot is used.
func (a *app) recyclerDashboard(ctx context.Context, wardID string) (*dashboard.Recycler, error) {
	d := dashboard.NewRecycler(a.client.Recycler(), a.notes, a.logger, a.userID(), wardID)
	if !d.Load(ctx) {
		return nil, errReported
	}
	if d.WardID == "" && len(d.Slots) > 0 && d.Slots[0].WardID() != "" {
		d.WardID = d.Slots[0].WardID()
		if !d.Load(ctx) {
			return nil, errReported
		}
	}
	return d, nil
}

func cmdRecycler(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	ward := fs.String("ward", "", "ward whose bookings to show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	d, err := a.recyclerDashboard(ctx, *ward)
	if err != nil {
		return err
	}
	section(a.out, "My pickup slots")
	renderSlots(a.out, d.Slots)
	section(a.out, "Pending bookings")
	renderBookings(a.out, d.Pending())
	section(a.out, "Collected bookings")
	renderBookings(a.out, d.Collected())
	return nil
}

func cmdCreateSlot(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	ward := fs.String("ward", "", "ward id")
	start := fs.String("start", "", "start time, "+timeLayout)
	duration := fs.Duration("duration", 2*time.Hour, "slot length")
	capacity := fs.Int("capacity", 0, "number of bookings accepted")
	inactive := fs.Bool("inactive", false, "create the slot closed to bookings")
	if err := fs.Parse(args); err != nil {
		return err
	}

	d := dashboard.NewRecycler(a.client.Recycler(), a.notes, a.logger, a.userID(), *ward)
	if !d.OpenSlotForm(ctx) {
		return errReported
	}
	req := dto.SlotRequest{WardID: *ward, Capacity: *capacity, IsActive: !*inactive}
	if *start != "" {
		t, err := time.ParseInLocation(timeLayout, *start, time.Local)
		if err != nil {
			return fmt.Errorf("-start must look like %q", timeLayout)
		}
		req.StartTime, req.EndTime = t, t.Add(*duration)
	}
	if err := outcome(d.CreateSlot(ctx, req)); err != nil {
		if len(d.Wards) > 0 && *ward == "" {
			section(a.out, "Wards")
			renderWards(a.out, d.Wards)
		}
		return err
	}
	section(a.out, "My pickup slots")
	renderSlots(a.out, d.Slots)
	return nil
}

func cmdUpdateSlot(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	id := fs.String("id", "", "slot id")
	capacity := fs.Int("capacity", 0, "new capacity (0 keeps the current one)")
	active := fs.String("active", "", "true or false (empty keeps the current value)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	recycler := a.client.Recycler()
	slots, err := recycler.ListSlots(ctx, a.userID())
	if err != nil {
		a.notes.Notify(toast.FromError(err, "Failed to fetch slots"))
		return errReported
	}
	for _, s := range slots {
		if s.ID != *id {
			continue
		}
		req := dto.SlotRequest{WardID: s.WardID(), StartTime: s.StartTime, EndTime: s.EndTime, Capacity: s.Capacity, IsActive: s.IsActive}
		if *capacity > 0 {
			req.Capacity = *capacity
		}
		switch *active {
		case "":
		case "true":
			req.IsActive = true
		case "false":
			req.IsActive = false
		default:
			return fmt.Errorf("-active must be true or false")
		}
		updated, err := recycler.UpdateSlot(ctx, s.ID, req)
		if err != nil {
			a.notes.Notify(toast.FromError(err, "Failed to update slot"))
			return errReported
		}
		a.notes.Notify(toast.Success("Success", "Pickup slot updated successfully"))
		renderSlots(a.out, []models.PickupSlot{updated})
		return nil
	}
	return fmt.Errorf("no slot of yours with id %q", *id)
}

func cmdDeleteSlot(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	id := fs.String("id", "", "slot id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	d, err := a.recyclerDashboard(ctx, "")
	if err != nil {
		return err
	}
	return outcome(d.DeleteSlot(ctx, *id))
}

func cmdSlotBookings(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	id := fs.String("slot", "", "slot id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	bookings, err := a.client.Recycler().BookingsBySlot(ctx, *id)
	if err != nil {
		a.notes.Notify(toast.FromError(err, "Failed to fetch bookings"))
		return errReported
	}
	renderBookings(a.out, bookings)
	return nil
}

func cmdCollect(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	id := fs.String("booking", "", "booking id")
	quantity := fs.Float64("quantity", 0, "collected quantity")
	ward := fs.String("ward", "", "ward of the booking")
	if err := fs.Parse(args); err != nil {
		return err
	}
	d, err := a.recyclerDashboard(ctx, *ward)
	if err != nil {
		return err
	}
	return outcome(d.MarkCollected(ctx, *id, *quantity))
}

func cmdCancelBooking(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	id := fs.String("booking", "", "booking id")
	ward := fs.String("ward", "", "ward of the booking")
	if err := fs.Parse(args); err != nil {
		return err
	}
	d, err := a.recyclerDashboard(ctx, *ward)
	if err != nil {
		return err
	}
	return outcome(d.UpdateStatus(ctx, *id, models.StatusCancelled, nil))
}
