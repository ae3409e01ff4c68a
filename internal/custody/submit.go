package custody

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
)

var errBatchRejected = errors.New("batch rejected")

// SubmitBookingRequests validates the whole batch and persists every item or
// none. Per-item problems are returned in Failed, not as an error.
func (s *Service) SubmitBookingRequests(ctx context.Context, batch []BookingInput) (*SubmitResult, error) {
	l := s.logger.With(zap.String("op", "SubmitBookingRequests"), zap.Int("items", len(batch)))
	result := &SubmitResult{
		Succeeded: []*repository.Request{},
		Failed:    []FailedBooking{},
	}
	if len(batch) == 0 {
		result.Failed = append(result.Failed, FailedBooking{Errors: []string{msgNoRequests}})
		return result, nil
	}

	candidates := make([]bookingCandidate, len(batch))
	for i, in := range batch {
		requester, err := s.resolveUser(ctx, in.Requester)
		if err != nil {
			return nil, err
		}
		nextKeeper, err := s.resolveUser(ctx, in.NextKeeper)
		if err != nil {
			return nil, err
		}
		candidates[i] = bookingCandidate{input: in, requester: requester, nextKeeper: nextKeeper}
	}

	var created []*repository.Request
	err := s.inTx(ctx, func(tx db.Tx) error {
		states, err := s.lockBatchDevices(ctx, tx, batch)
		if err != nil {
			return err
		}

		var accepted []bookingCandidate
		var toCreate []*repository.Request
		for _, c := range candidates {
			st := states[c.input.DeviceID]
			if st != nil {
				c.device = st.device
			}

			errs := validateBooking(c)
			if len(errs) == 0 {
				errs = validateAgainstBatch(c, accepted)
			}
			var pos chainPosition
			if len(errs) == 0 {
				r := DateRange{From: Day(c.input.BookingDate), To: Day(c.input.ReturnDate)}
				pos, errs = resolvePosition(st.device, st.chain, c.requester.ID, c.nextKeeper.ID, r, st.requests)
			}
			if len(errs) > 0 {
				failed := FailedBooking{Input: c.input, Errors: errs}
				if c.device != nil {
					failed.DeviceName = c.device.Name
				}
				result.Failed = append(result.Failed, failed)
				continue
			}

			accepted = append(accepted, c)
			toCreate = append(toCreate, s.fanOut(c, pos)...)
		}
		if len(result.Failed) > 0 {
			return errBatchRejected
		}

		for _, r := range toCreate {
			if err := s.requests.CreateTx(ctx, tx, r); err != nil {
				return err
			}
			if err := s.emit(ctx, tx, requestEvent(repository.EventRequestSubmitted, r)); err != nil {
				return err
			}
		}
		created = toCreate
		return nil
	})
	if errors.Is(err, errBatchRejected) {
		l.Info("Batch rejected", zap.Int("failed", len(result.Failed)))
		return result, nil
	}
	if err != nil {
		l.Error("Failed to submit booking requests", zap.Error(err))
		return nil, err
	}

	result.Succeeded = created
	metrics.RequestsSubmittedTotal.Add(float64(len(created)))
	l.Info("Booking requests submitted", zap.Int("created", len(created)))
	return result, nil
}

// lockBatchDevices locks every known device of the batch in ascending id order.
// Unknown devices are absent from the result.
func (s *Service) lockBatchDevices(ctx context.Context, tx db.Tx, batch []BookingInput) (map[int64]*deviceState, error) {
	seen := make(map[int64]struct{}, len(batch))
	ids := make([]int64, 0, len(batch))
	for _, in := range batch {
		if _, ok := seen[in.DeviceID]; ok {
			continue
		}
		seen[in.DeviceID] = struct{}{}
		ids = append(ids, in.DeviceID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	states := make(map[int64]*deviceState, len(ids))
	for _, id := range ids {
		st, err := s.loadDeviceState(ctx, tx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		states[id] = st
	}
	return states, nil
}

// fanOut builds one pending request per accepter; all share one request code.
func (s *Service) fanOut(c bookingCandidate, pos chainPosition) []*repository.Request {
	code := s.newCode()
	now := s.timeNow()
	out := make([]*repository.Request, 0, pos.depth())
	for _, accepterID := range pos.accepterIDs {
		out = append(out, &repository.Request{
			Code:            code,
			RequesterID:     c.requester.ID,
			CurrentKeeperID: pos.currentKeeperID,
			NextKeeperID:    c.nextKeeper.ID,
			AccepterID:      accepterID,
			DeviceID:        c.device.ID,
			Status:          repository.RequestPending,
			BookingDate:     Day(c.input.BookingDate),
			ReturnDate:      Day(c.input.ReturnDate),
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	return out
}
