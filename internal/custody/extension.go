package custody

import (
	"context"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
)

// ExtendDuration asks the accepter of a keeper's occupied request for a later
// return date. The keeper order changes only when the request is approved.
func (s *Service) ExtendDuration(ctx context.Context, in ExtendInput) (*repository.Request, error) {
	l := s.logger.With(zap.String("op", "ExtendDuration"), zap.Int64("device_id", in.DeviceID), zap.String("next_keeper", in.NextKeeper))

	if in.ReturnDate.IsZero() {
		return nil, validationError("return date must not be empty")
	}
	keeper, err := s.resolveUser(ctx, in.NextKeeper)
	if err != nil {
		return nil, err
	}
	if keeper == nil {
		return nil, notFound("next keeper %q does not exist", in.NextKeeper)
	}

	var extension *repository.Request
	err = s.inTx(ctx, func(tx db.Tx) error {
		st, err := s.loadDeviceState(ctx, tx, in.DeviceID)
		if err != nil {
			return err
		}
		order := findOrderByKeeper(st.chain, keeper.ID)
		if order == nil {
			return notFound("%s does not keep device %d", keeper.Username, in.DeviceID)
		}
		occupied := st.occupiedRequest(keeper.ID)
		if occupied == nil {
			return notFound("there is no transferred request of %s for device %d", keeper.Username, in.DeviceID)
		}

		newDate := Day(in.ReturnDate)
		if !newDate.After(Day(occupied.ReturnDate)) {
			return validationError("return date must be after the current return date %s", Day(occupied.ReturnDate).Format(dateLayout))
		}
		if order.KeeperNo > 1 {
			pred := findOrderByNo(st.chain, order.KeeperNo-1)
			if pred == nil {
				return s.invariant(l, "keeper order without its predecessor",
					zap.Int64("order_id", order.ID), zap.Int("keeper_no", order.KeeperNo))
			}
			if !nestedInChain(DateRange{From: Day(order.BookingDate), To: newDate}, predecessors(st.chain, order.KeeperNo)) {
				return conflict("%s, the latest possible return date is %s", msgExtensionOutOfRange, latestAllowedDue(pred).Format(dateLayout))
			}
		}

		now := s.timeNow()
		extension = &repository.Request{
			Code:            occupied.Code,
			RequesterID:     occupied.RequesterID,
			CurrentKeeperID: occupied.CurrentKeeperID,
			NextKeeperID:    keeper.ID,
			AccepterID:      occupied.AccepterID,
			DeviceID:        occupied.DeviceID,
			Status:          repository.RequestExtending,
			BookingDate:     occupied.BookingDate,
			ReturnDate:      newDate,
			TransferredDate: occupied.TransferredDate,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.requests.CreateTx(ctx, tx, extension); err != nil {
			return err
		}
		return s.emit(ctx, tx, requestEvent(repository.EventExtensionAsked, extension))
	})
	if err != nil {
		l.Info("Extension rejected", zap.Error(err))
		return nil, err
	}

	metrics.ExtensionsRequestedTotal.Inc()
	l.Info("Extension requested", zap.Int64("request_id", extension.ID))
	return extension, nil
}
