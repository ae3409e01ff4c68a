package custody

import (
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
)

const (
	msgChainFull      = "keeper number exceeds the allowance of times"
	msgReentrant      = "the next keeper already appears in the keeper chain, please choose another next keeper"
	msgOutOfRange     = "the booking date and/or return date are out of the keeper order's date range"
	msgAlreadyPending = "the submitted request already exists"
)

// chainPosition is where a submission would attach to a device's custody chain.
type chainPosition struct {
	// currentKeeperID holds the device now: the owner or the last active keeper.
	currentKeeperID int64
	// accepterIDs must each receive a pending request.
	accepterIDs []int64
}

func (p chainPosition) depth() int {
	return len(p.accepterIDs)
}

// resolvePosition computes the chain position for a submission and collects
// every chain rule it breaks. chain must be the active orders sorted by number.
func resolvePosition(device *repository.Device, chain []*repository.KeeperOrder, requesterID, nextKeeperID int64, r DateRange, requests []*repository.Request) (chainPosition, []string) {
	pos := currentPosition(device, chain)

	var errs []string
	if len(chain) >= MaxChainDepth {
		errs = append(errs, msgChainFull)
	}
	if inChain(chain, nextKeeperID) {
		errs = append(errs, msgReentrant)
	}
	if !nestedInChain(r, chain) {
		errs = append(errs, msgOutOfRange)
	}
	if hasLiveDuplicate(requests, requesterID, pos.currentKeeperID, nextKeeperID, device.ID) {
		errs = append(errs, msgAlreadyPending)
	}
	return pos, errs
}

func currentPosition(device *repository.Device, chain []*repository.KeeperOrder) chainPosition {
	if len(chain) == 0 {
		return chainPosition{currentKeeperID: device.OwnerID, accepterIDs: []int64{device.OwnerID}}
	}
	pos := chainPosition{currentKeeperID: chain[len(chain)-1].KeeperID}
	for _, o := range chain {
		pos.accepterIDs = append(pos.accepterIDs, o.KeeperID)
	}
	return pos
}

// custodianID is the user physically holding the device.
func custodianID(device *repository.Device, chain []*repository.KeeperOrder) int64 {
	return currentPosition(device, chain).currentKeeperID
}

func inChain(chain []*repository.KeeperOrder, keeperID int64) bool {
	return findOrderByKeeper(chain, keeperID) != nil
}

func findOrderByKeeper(chain []*repository.KeeperOrder, keeperID int64) *repository.KeeperOrder {
	for _, o := range chain {
		if o.KeeperID == keeperID {
			return o
		}
	}
	return nil
}

func findOrderByNo(chain []*repository.KeeperOrder, keeperNo int) *repository.KeeperOrder {
	for _, o := range chain {
		if o.KeeperNo == keeperNo {
			return o
		}
	}
	return nil
}

// predecessors returns the orders numbered below keeperNo.
func predecessors(chain []*repository.KeeperOrder, keeperNo int) []*repository.KeeperOrder {
	var out []*repository.KeeperOrder
	for _, o := range chain {
		if o.KeeperNo < keeperNo {
			out = append(out, o)
		}
	}
	return out
}

func nextKeeperNo(chain []*repository.KeeperOrder) int {
	max := 0
	for _, o := range chain {
		if o.KeeperNo > max {
			max = o.KeeperNo
		}
	}
	return max + 1
}

func hasLiveDuplicate(requests []*repository.Request, requesterID, currentKeeperID, nextKeeperID, deviceID int64) bool {
	for _, r := range requests {
		if r.Status.Live() &&
			r.DeviceID == deviceID &&
			r.RequesterID == requesterID &&
			r.CurrentKeeperID == currentKeeperID &&
			r.NextKeeperID == nextKeeperID {
			return true
		}
	}
	return false
}
