package custody

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
)

// ConfirmKeeperReturn is called by the keeper of order keeperNo once every
// keeper further down the chain has handed the device back.
func (s *Service) ConfirmKeeperReturn(ctx context.Context, deviceID int64, keeperNo int, newCurrentKeeperID int64) (*ReturnResult, error) {
	l := s.logger.With(zap.String("op", "ConfirmKeeperReturn"), zap.Int64("device_id", deviceID), zap.Int("keeper_no", keeperNo))
	if keeperNo < 1 {
		return nil, validationError("keeper order number must be positive")
	}

	var result *ReturnResult
	err := s.inTx(ctx, func(tx db.Tx) error {
		st, err := s.loadDeviceState(ctx, tx, deviceID)
		if err != nil {
			return err
		}
		confirming := findOrderByNo(st.chain, keeperNo)
		if confirming == nil {
			return notFound("device %d has no active keeper order %d", deviceID, keeperNo)
		}
		if confirming.KeeperID != newCurrentKeeperID {
			return conflict("keeper order %d of device %d is not held by user %d", keeperNo, deviceID, newCurrentKeeperID)
		}
		result, err = s.returnDownstream(ctx, tx, l, st, keeperNo, newCurrentKeeperID)
		return err
	})
	if err != nil {
		l.Info("Keeper return rejected", zap.Error(err))
		return nil, err
	}

	s.forgetChain(deviceID)
	metrics.ReturnsConfirmedTotal.WithLabelValues("keeper").Add(float64(len(result.OldKeepers)))
	l.Info("Keeper return confirmed", zap.Strings("old_keepers", result.OldKeepers))
	return result, nil
}

// ConfirmOwnerReturn clears the whole chain and makes the device vacant.
func (s *Service) ConfirmOwnerReturn(ctx context.Context, deviceID int64, newCurrentKeeperID int64) (*ReturnResult, error) {
	l := s.logger.With(zap.String("op", "ConfirmOwnerReturn"), zap.Int64("device_id", deviceID))

	var result *ReturnResult
	err := s.inTx(ctx, func(tx db.Tx) error {
		st, err := s.loadDeviceState(ctx, tx, deviceID)
		if err != nil {
			return err
		}
		if st.device.OwnerID != newCurrentKeeperID {
			return conflict("only the owner of device %d can confirm its return", deviceID)
		}
		result, err = s.returnDownstream(ctx, tx, l, st, 0, newCurrentKeeperID)
		if err != nil {
			return err
		}
		return s.setDeviceStatus(ctx, tx, st.device, repository.DeviceVacant)
	})
	if err != nil {
		l.Info("Owner return rejected", zap.Error(err))
		return nil, err
	}

	s.forgetChain(deviceID)
	metrics.ReturnsConfirmedTotal.WithLabelValues("owner").Add(float64(len(result.OldKeepers)))
	l.Info("Owner return confirmed", zap.Strings("old_keepers", result.OldKeepers))
	return result, nil
}

// returnDownstream returns every active order numbered above keeperNo, last
// keeper first, and hands their requests to confirmerID.
func (s *Service) returnDownstream(ctx context.Context, tx db.Tx, l *zap.Logger, st *deviceState, keeperNo int, confirmerID int64) (*ReturnResult, error) {
	var vacating []*repository.KeeperOrder
	for _, o := range st.chain {
		if o.KeeperNo > keeperNo {
			vacating = append(vacating, o)
		}
	}
	if len(vacating) == 0 {
		return nil, notFound("device %d has no keeper after order %d", st.device.ID, keeperNo)
	}

	now := s.timeNow()
	result := &ReturnResult{OldKeepers: make([]string, 0, len(vacating))}
	vacated := make(map[int64]bool, len(vacating))
	for i := len(vacating) - 1; i >= 0; i-- {
		o := vacating[i]
		occupied := st.occupiedRequest(o.KeeperID)
		if occupied == nil {
			return nil, s.invariant(l, "active keeper order without an occupied request",
				zap.Int64("device_id", st.device.ID), zap.Int64("order_id", o.ID), zap.Int("keeper_no", o.KeeperNo))
		}
		occupied.CurrentKeeperID = confirmerID
		occupied.Status = repository.RequestReturned
		occupied.UpdatedAt = now
		if err := s.requests.UpdateTx(ctx, tx, occupied); err != nil {
			return nil, err
		}

		o.IsReturned = true
		o.UpdatedAt = now
		if err := s.orders.UpdateTx(ctx, tx, o); err != nil {
			return nil, err
		}
		result.OldKeepers = append(result.OldKeepers, o.KeeperName)
		vacated[o.KeeperID] = true
	}
	// Reported in chain order.
	slices.Reverse(result.OldKeepers)

	// Requests that would act on a link that no longer exists.
	for _, r := range st.requests {
		stale := false
		switch r.Status {
		case repository.RequestExtending:
			stale = vacated[r.NextKeeperID]
		case repository.RequestPending, repository.RequestApproved:
			stale = vacated[r.AccepterID] || vacated[r.CurrentKeeperID]
		case repository.RequestCancelled, repository.RequestTransferred, repository.RequestReturned:
		}
		if stale {
			if err := s.cancelRequest(ctx, tx, r); err != nil {
				return nil, err
			}
		}
	}

	if err := s.emit(ctx, tx, repository.CustodyEventPayload{
		Type:        repository.EventCustodyReturned,
		DeviceID:    st.device.ID,
		KeeperNo:    keeperNo,
		OldKeepers:  result.OldKeepers,
		NewKeeperID: confirmerID,
	}); err != nil {
		return nil, err
	}
	return result, nil
}
