package custody

import (
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
)

const (
	msgNoRequests        = "no requests were submitted"
	msgDeviceMissing     = "the device you submitted does not exist"
	msgDeviceUnusable    = "the device you submitted is unusable"
	msgRequesterInvalid  = "the requester is invalid"
	msgNextKeeperInvalid = "the next keeper must exist and must not be the device's owner"
	msgDatesMissing      = "the booking date and the return date must be set"
	msgDatesOrder        = "the booking date must be before the return date"
	msgIdenticalInBatch  = "identical requests were submitted in one batch"
	msgDeviceInBatch     = "the same device was submitted more than once in one batch"
)

// bookingCandidate is one batch item with its references resolved.
// Nil pointers mean the reference could not be resolved.
type bookingCandidate struct {
	input      BookingInput
	device     *repository.Device
	requester  *repository.User
	nextKeeper *repository.User
}

// validateBooking checks one item in isolation and returns its errors in a
// stable order. It has no side effects.
func validateBooking(c bookingCandidate) []string {
	if c.device == nil {
		return []string{msgDeviceMissing}
	}

	var errs []string
	if !c.device.Status.Usable() {
		errs = append(errs, msgDeviceUnusable)
	}
	if c.requester == nil {
		errs = append(errs, msgRequesterInvalid)
	}
	if c.nextKeeper == nil || c.nextKeeper.ID == c.device.OwnerID {
		errs = append(errs, msgNextKeeperInvalid)
	}
	switch {
	case c.input.BookingDate.IsZero() || c.input.ReturnDate.IsZero():
		errs = append(errs, msgDatesMissing)
	case !Day(c.input.BookingDate).Before(Day(c.input.ReturnDate)):
		errs = append(errs, msgDatesOrder)
	}
	return errs
}

// validateAgainstBatch rejects an item that repeats an already accepted one.
func validateAgainstBatch(c bookingCandidate, accepted []bookingCandidate) []string {
	for _, prev := range accepted {
		if prev.device.ID == c.device.ID &&
			prev.requester.ID == c.requester.ID &&
			prev.nextKeeper.ID == c.nextKeeper.ID {
			return []string{msgIdenticalInBatch}
		}
	}
	for _, prev := range accepted {
		if prev.device.ID == c.device.ID {
			return []string{msgDeviceInBatch}
		}
	}
	return nil
}
