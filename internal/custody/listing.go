package custody

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
)

const maxSuggestions = 20

type viewCompare func(a, b *repository.RequestView) int

var sortColumns = map[string]viewCompare{
	"id":             func(a, b *repository.RequestView) int { return cmp.Compare(a.ID, b.ID) },
	"request_code":   func(a, b *repository.RequestView) int { return strings.Compare(a.Code, b.Code) },
	"device":         func(a, b *repository.RequestView) int { return strings.Compare(a.DeviceName, b.DeviceName) },
	"serial_number":  func(a, b *repository.RequestView) int { return strings.Compare(a.SerialNumber, b.SerialNumber) },
	"requester":      func(a, b *repository.RequestView) int { return strings.Compare(a.RequesterName, b.RequesterName) },
	"current_keeper": func(a, b *repository.RequestView) int { return strings.Compare(a.CurrentKeeperName, b.CurrentKeeperName) },
	"next_keeper":    func(a, b *repository.RequestView) int { return strings.Compare(a.NextKeeperName, b.NextKeeperName) },
	"approver":       func(a, b *repository.RequestView) int { return strings.Compare(a.AccepterName, b.AccepterName) },
	"status":         func(a, b *repository.RequestView) int { return strings.Compare(string(a.Status), string(b.Status)) },
	"booking_date":   func(a, b *repository.RequestView) int { return a.BookingDate.Compare(b.BookingDate) },
	"return_date":    func(a, b *repository.RequestView) int { return a.ReturnDate.Compare(b.ReturnDate) },
	"updated_at":     func(a, b *repository.RequestView) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
}

var suggestColumns = map[string]func(v *repository.RequestView) string{
	"request_code":   func(v *repository.RequestView) string { return v.Code },
	"device":         func(v *repository.RequestView) string { return v.DeviceName },
	"serial_number":  func(v *repository.RequestView) string { return v.SerialNumber },
	"requester":      func(v *repository.RequestView) string { return v.RequesterName },
	"current_keeper": func(v *repository.RequestView) string { return v.CurrentKeeperName },
	"next_keeper":    func(v *repository.RequestView) string { return v.NextKeeperName },
	"approver":       func(v *repository.RequestView) string { return v.AccepterName },
}

// ListRequests returns one page of the requests an employee takes part in.
func (s *Service) ListRequests(ctx context.Context, employeeID int64, filter RequestFilter, page PageRequest) (*RequestPage, error) {
	if page.Page <= 0 || page.Size <= 0 {
		return nil, validationError("page and size must be positive")
	}
	sortBy := page.SortBy
	if sortBy == "" {
		sortBy = "id"
	}
	compare, ok := sortColumns[sortBy]
	if !ok {
		return nil, validationError("cannot sort by %q", page.SortBy)
	}
	switch strings.ToLower(page.SortDir) {
	case "", "asc":
	case "desc":
		asc := compare
		compare = func(a, b *repository.RequestView) int { return asc(b, a) }
	default:
		return nil, validationError("sort direction must be asc or desc")
	}

	views, err := s.visibleRequests(ctx, employeeID, filter)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(views, compare)

	statuses := make([]repository.RequestStatus, 0, len(repository.RequestStatuses))
	for _, v := range views {
		if !slices.Contains(statuses, v.Status) {
			statuses = append(statuses, v.Status)
		}
	}

	total := len(views)
	from, to := pageBounds(total, page.Page, page.Size)
	return &RequestPage{
		Items:         views[from:to],
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: total,
		TotalPages:    totalPages(total, page.Size),
		Statuses:      statuses,
	}, nil
}

// pageBounds slices total items into pages without overflowing on huge page
// or size values. page and size are positive.
func pageBounds(total, page, size int) (from, to int) {
	if page-1 > total/size {
		return total, total
	}
	from = min((page-1)*size, total)
	return from, from + min(size, total-from)
}

func totalPages(total, size int) int {
	if total == 0 {
		return 1
	}
	return (total-1)/size + 1
}

// SuggestRequestKeywords returns up to 20 distinct values of one column that
// contain keyword, drawn from the employee's filtered requests.
func (s *Service) SuggestRequestKeywords(ctx context.Context, employeeID int64, column, keyword string, filter RequestFilter) ([]string, error) {
	value, ok := suggestColumns[column]
	if !ok {
		return nil, validationError("cannot suggest keywords for column %q", column)
	}
	views, err := s.visibleRequests(ctx, employeeID, filter)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(keyword))
	var keywords []string
	for _, v := range views {
		candidate := value(v)
		if !strings.Contains(strings.ToLower(candidate), needle) || slices.Contains(keywords, candidate) {
			continue
		}
		keywords = append(keywords, candidate)
	}
	slices.Sort(keywords)
	if len(keywords) > maxSuggestions {
		keywords = keywords[:maxSuggestions]
	}
	if keywords == nil {
		keywords = []string{}
	}
	return keywords, nil
}

func (s *Service) visibleRequests(ctx context.Context, employeeID int64, filter RequestFilter) ([]*repository.RequestView, error) {
	views, err := s.requests.ListViewsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	out := views[:0]
	for _, v := range views {
		// A requester does not see extension requests addressed to someone else.
		if v.Status == repository.RequestExtending && v.RequesterID == employeeID && v.AccepterID != employeeID {
			continue
		}
		if filter.matches(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f RequestFilter) matches(v *repository.RequestView) bool {
	textFilters := []struct {
		want string
		got  string
	}{
		{f.Device, v.DeviceName},
		{f.SerialNumber, v.SerialNumber},
		{f.Approver, v.AccepterName},
		{f.Requester, v.RequesterName},
		{f.CurrentKeeper, v.CurrentKeeperName},
		{f.NextKeeper, v.NextKeeperName},
	}
	for _, tf := range textFilters {
		want := strings.TrimSpace(tf.want)
		if want != "" && !strings.EqualFold(want, strings.TrimSpace(tf.got)) {
			return false
		}
	}
	if f.RequestCode != "" && strings.TrimSpace(f.RequestCode) != v.Code {
		return false
	}
	if f.Status != "" && f.Status != v.Status {
		return false
	}
	if !f.BookedAfter.IsZero() && !v.BookingDate.After(Day(f.BookedAfter)) {
		return false
	}
	if !f.ReturnBefore.IsZero() && !v.ReturnDate.Before(Day(f.ReturnBefore)) {
		return false
	}
	return true
}

// KeeperChain returns the device's active chain, served from the cache when
// no mutation touched the device since it was built.
func (s *Service) KeeperChain(ctx context.Context, deviceID int64) (*repository.KeeperChain, error) {
	var generation uint64
	if s.chains != nil {
		chain, gen, ok := s.chains.Get(deviceID)
		if ok {
			return chain, nil
		}
		generation = gen
	}

	device, err := s.devices.GetByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, notFound("device %d does not exist", deviceID)
		}
		return nil, err
	}
	orders, err := s.orders.ListActiveByDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	chain := BuildKeeperChain(device, orders)
	if s.chains != nil && !s.chains.Set(chain, generation) {
		s.logger.Debug("Keeper chain changed while it was read, not caching", zap.Int64("device_id", deviceID))
	}
	return chain, nil
}

// BuildKeeperChain assembles the chain view; orders must be sorted by number.
func BuildKeeperChain(device *repository.Device, orders []*repository.KeeperOrder) *repository.KeeperChain {
	chain := &repository.KeeperChain{
		DeviceID:      device.ID,
		CurrentKeeper: device.OwnerName,
		Orders:        make([]repository.KeeperOrder, 0, len(orders)),
	}
	for _, o := range orders {
		chain.Orders = append(chain.Orders, *o)
	}
	if len(orders) > 0 {
		chain.CurrentKeeper = orders[len(orders)-1].KeeperName
	}
	return chain
}

func (s *Service) HasRequestsInStatus(ctx context.Context, deviceID int64, status repository.RequestStatus) (bool, error) {
	if _, err := repository.ParseRequestStatus(string(status)); err != nil {
		return false, validationError("unknown request status %q", status)
	}
	return s.requests.ExistsByStatusAndDevice(ctx, deviceID, status)
}

// DeleteRequestsInStatus removes requests that no longer hold the device.
// Requests that back a custody link cannot be deleted.
func (s *Service) DeleteRequestsInStatus(ctx context.Context, deviceID int64, status repository.RequestStatus) (int64, error) {
	if _, err := repository.ParseRequestStatus(string(status)); err != nil {
		return 0, validationError("unknown request status %q", status)
	}
	if holdsDevice(status) {
		return 0, conflict("%s requests cannot be deleted", status)
	}

	var deleted int64
	err := s.inTx(ctx, func(tx db.Tx) error {
		if _, err := s.lockDevice(ctx, tx, deviceID); err != nil {
			return err
		}
		n, err := s.requests.DeleteByStatusAndDeviceTx(ctx, tx, deviceID, status)
		deleted = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// ClearDeviceForDeletion drops the custody history of a device that nobody
// holds or is about to hold.
func (s *Service) ClearDeviceForDeletion(ctx context.Context, deviceID int64) error {
	l := s.logger.With(zap.String("op", "ClearDeviceForDeletion"), zap.Int64("device_id", deviceID))

	err := s.inTx(ctx, func(tx db.Tx) error {
		st, err := s.loadDeviceState(ctx, tx, deviceID)
		if err != nil {
			return err
		}
		for _, r := range st.requests {
			if holdsDevice(r.Status) {
				return conflict("device %d still has %s requests", deviceID, r.Status)
			}
		}
		for _, status := range []repository.RequestStatus{
			repository.RequestPending,
			repository.RequestCancelled,
			repository.RequestReturned,
		} {
			if _, err := s.requests.DeleteByStatusAndDeviceTx(ctx, tx, deviceID, status); err != nil {
				return err
			}
		}
		_, err = s.orders.DeleteReturnedByDeviceTx(ctx, tx, deviceID)
		return err
	})
	if err != nil {
		l.Info("Device clearing rejected", zap.Error(err))
		return err
	}

	s.forgetChain(deviceID)
	l.Info("Device custody history cleared")
	return nil
}

func holdsDevice(status repository.RequestStatus) bool {
	switch status {
	case repository.RequestApproved, repository.RequestTransferred, repository.RequestExtending:
		return true
	case repository.RequestPending, repository.RequestCancelled, repository.RequestReturned:
		return false
	default:
		return false
	}
}
