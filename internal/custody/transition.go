package custody

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
)

const msgExtensionOutOfRange = "return date exceeds the allowed duration"

// allowedTransition lists, for every target status, the statuses it may be
// reached from through UpdateRequestStatus.
func allowedTransition(from, to repository.RequestStatus) bool {
	switch to {
	case repository.RequestApproved:
		return from == repository.RequestPending
	case repository.RequestCancelled:
		return from == repository.RequestPending || from == repository.RequestApproved || from == repository.RequestExtending
	case repository.RequestTransferred:
		return from == repository.RequestApproved
	case repository.RequestExtending:
		return from == repository.RequestExtending
	case repository.RequestPending, repository.RequestReturned:
		return false
	default:
		return false
	}
}

func checkTransition(from, to repository.RequestStatus) error {
	if from == to && to != repository.RequestExtending {
		return notAcceptable("request is already %s", from)
	}
	if !allowedTransition(from, to) {
		return notAcceptable("a %s request cannot become %s", from, to)
	}
	return nil
}

// UpdateRequestStatus applies an accepter's decision to a request together
// with all of its cascades, atomically.
func (s *Service) UpdateRequestStatus(ctx context.Context, requestID int64, target repository.RequestStatus) error {
	l := s.logger.With(zap.String("op", "UpdateRequestStatus"), zap.Int64("request_id", requestID), zap.String("target", string(target)))

	if _, err := repository.ParseRequestStatus(string(target)); err != nil {
		return validationError("unknown request status %q", target)
	}

	// The unlocked read only finds the device; the decision uses the row
	// re-read under the device lock.
	existing, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return notFound("request %d does not exist", requestID)
		}
		return err
	}

	err = s.inTx(ctx, func(tx db.Tx) error {
		st, err := s.loadDeviceState(ctx, tx, existing.DeviceID)
		if err != nil {
			return err
		}
		req := st.request(requestID)
		if req == nil {
			return notFound("request %d does not exist", requestID)
		}
		if err := checkTransition(req.Status, target); err != nil {
			return err
		}

		switch target {
		case repository.RequestApproved:
			return s.approve(ctx, tx, st, req)
		case repository.RequestCancelled:
			return s.cancel(ctx, tx, st, req)
		case repository.RequestTransferred:
			return s.transfer(ctx, tx, st, req)
		case repository.RequestExtending:
			return s.grantExtension(ctx, tx, st, req)
		case repository.RequestPending, repository.RequestReturned:
			return notAcceptable("a request cannot be set to %s directly", target)
		default:
			return notAcceptable("a request cannot be set to %s directly", target)
		}
	})
	if err != nil {
		l.Info("Status update rejected", zap.Error(err))
		return err
	}

	s.forgetChain(existing.DeviceID)
	metrics.RequestTransitionsTotal.WithLabelValues(string(target)).Inc()
	l.Info("Request status updated")
	return nil
}

func (s *Service) approve(ctx context.Context, tx db.Tx, st *deviceState, req *repository.Request) error {
	if !st.device.Status.Usable() {
		return conflict("device %d is %s and cannot be lent", st.device.ID, st.device.Status)
	}

	now := s.timeNow()
	req.Status = repository.RequestApproved
	req.ApprovalDate = &now
	req.UpdatedAt = now
	if err := s.requests.UpdateTx(ctx, tx, req); err != nil {
		return err
	}

	// Competing submissions for the same custodian lose. Fan-out siblings
	// lose too unless the policy still needs their approvals.
	keepSiblings := s.policy.KeepsSiblingsOnApprove()
	for _, r := range st.requests {
		if r.ID == req.ID || (keepSiblings && r.Code == req.Code) {
			continue
		}
		if r.Status == repository.RequestPending && r.CurrentKeeperID == req.CurrentKeeperID {
			if err := s.cancelRequest(ctx, tx, r); err != nil {
				return err
			}
		}
	}

	if err := s.setDeviceStatus(ctx, tx, st.device, repository.DeviceOccupied); err != nil {
		return err
	}
	return s.emit(ctx, tx, requestEvent(repository.EventRequestApproved, req))
}

func (s *Service) cancel(ctx context.Context, tx db.Tx, st *deviceState, req *repository.Request) error {
	wasApproved := req.Status == repository.RequestApproved

	now := s.timeNow()
	req.Status = repository.RequestCancelled
	req.ApprovalDate = &now
	req.CancelledDate = &now
	req.UpdatedAt = now
	if err := s.requests.UpdateTx(ctx, tx, req); err != nil {
		return err
	}

	if wasApproved && len(st.chain) == 0 && !hasCommittedRequest(st.requests) {
		if err := s.setDeviceStatus(ctx, tx, st.device, repository.DeviceVacant); err != nil {
			return err
		}
	}
	return s.emit(ctx, tx, requestEvent(repository.EventRequestCancelled, req))
}

// hasCommittedRequest reports whether any request still holds the device.
func hasCommittedRequest(requests []*repository.Request) bool {
	for _, r := range requests {
		if r.Status == repository.RequestApproved || r.Status == repository.RequestTransferred {
			return true
		}
	}
	return false
}

func (s *Service) transfer(ctx context.Context, tx db.Tx, st *deviceState, req *repository.Request) error {
	lineage := st.lineage(req.Code)
	if !s.policy.ReadyForTransfer(req, lineage) {
		return conflict("request %s is still waiting for the approval of other keepers", req.Code)
	}
	if !st.device.Status.Usable() {
		return conflict("device %d is %s and cannot be lent", st.device.ID, st.device.Status)
	}
	if custodianID(st.device, st.chain) != req.CurrentKeeperID {
		return conflict("custody of device %d has moved since the request was submitted", st.device.ID)
	}
	if len(st.chain) >= MaxChainDepth {
		return conflict(msgChainFull)
	}
	if inChain(st.chain, req.NextKeeperID) {
		return conflict(msgReentrant)
	}
	r := DateRange{From: Day(req.BookingDate), To: Day(req.ReturnDate)}
	if !nestedInChain(r, st.chain) {
		return conflict(msgOutOfRange)
	}

	now := s.timeNow()
	req.Status = repository.RequestTransferred
	req.TransferredDate = &now
	req.UpdatedAt = now
	if err := s.requests.UpdateTx(ctx, tx, req); err != nil {
		return err
	}

	order := &repository.KeeperOrder{
		DeviceID:    st.device.ID,
		KeeperID:    req.NextKeeperID,
		KeeperNo:    nextKeeperNo(st.chain),
		BookingDate: r.From,
		DueDate:     r.To,
		IsReturned:  false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.orders.CreateTx(ctx, tx, order); err != nil {
		return err
	}

	for _, sibling := range lineage {
		if sibling.ID == req.ID {
			continue
		}
		if sibling.Status == repository.RequestPending || sibling.Status == repository.RequestApproved {
			if err := s.cancelRequest(ctx, tx, sibling); err != nil {
				return err
			}
		}
	}

	if err := s.setDeviceStatus(ctx, tx, st.device, repository.DeviceOccupied); err != nil {
		return err
	}
	event := requestEvent(repository.EventCustodyTransferred, req)
	event.KeeperNo = order.KeeperNo
	return s.emit(ctx, tx, event)
}

// grantExtension approves an EXTENDING request: it replaces the occupied
// request of the same link and moves the keeper order's due date.
func (s *Service) grantExtension(ctx context.Context, tx db.Tx, st *deviceState, req *repository.Request) error {
	order := findOrderByKeeper(st.chain, req.NextKeeperID)
	if order == nil {
		return conflict("user %d no longer keeps device %d", req.NextKeeperID, st.device.ID)
	}
	newDue := Day(req.ReturnDate)
	if !nestedInChain(DateRange{From: Day(order.BookingDate), To: newDue}, predecessors(st.chain, order.KeeperNo)) {
		return conflict(msgExtensionOutOfRange)
	}

	now := s.timeNow()
	req.Status = repository.RequestTransferred
	req.ApprovalDate = &now
	req.UpdatedAt = now
	if err := s.requests.UpdateTx(ctx, tx, req); err != nil {
		return err
	}

	for _, r := range st.requests {
		if r.ID == req.ID || r.NextKeeperID != req.NextKeeperID || r.CurrentKeeperID != req.CurrentKeeperID {
			continue
		}
		if r.Status == repository.RequestTransferred || r.Status == repository.RequestExtending {
			if err := s.cancelRequest(ctx, tx, r); err != nil {
				return err
			}
		}
	}

	order.DueDate = newDue
	order.UpdatedAt = now
	if err := s.orders.UpdateTx(ctx, tx, order); err != nil {
		return err
	}

	event := requestEvent(repository.EventExtensionGranted, req)
	event.KeeperNo = order.KeeperNo
	return s.emit(ctx, tx, event)
}
