package wizard

import (
	"errors"
	"fmt"
	"time"
)

var ErrEntryNotFound = errors.New("experience entry not found")

// nextID derives an entry id from the clock, bumped past every id already in use.
func nextID(now time.Time, used []int64) int64 {
	id := now.UnixNano()
	for _, u := range used {
		if u >= id {
			id = u + 1
		}
	}
	return id
}

func (e *Experience) usedIDs() []int64 {
	ids := make([]int64, 0, len(e.Employee)+len(e.Entrepreneur))
	for _, x := range e.Employee {
		ids = append(ids, x.ID)
	}
	for _, x := range e.Entrepreneur {
		ids = append(ids, x.ID)
	}
	return ids
}

func (c *Controller) AddEmployee(entry EmployeeEntry) EmployeeEntry {
	exp := &c.session.State.Experience
	entry.ID = nextID(time.Now(), exp.usedIDs())
	exp.Employee = append(exp.Employee, entry)
	return entry
}

func (c *Controller) UpdateEmployee(id int64, entry EmployeeEntry) error {
	exp := &c.session.State.Experience
	for i := range exp.Employee {
		if exp.Employee[i].ID == id {
			entry.ID = id
			exp.Employee[i] = entry
			return nil
		}
	}
	return fmt.Errorf("%w: employee %d", ErrEntryNotFound, id)
}

func (c *Controller) RemoveEmployee(id int64) error {
	exp := &c.session.State.Experience
	for i := range exp.Employee {
		if exp.Employee[i].ID == id {
			exp.Employee = append(exp.Employee[:i], exp.Employee[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: employee %d", ErrEntryNotFound, id)
}

func (c *Controller) AddEntrepreneur(entry EntrepreneurEntry) EntrepreneurEntry {
	exp := &c.session.State.Experience
	entry.ID = nextID(time.Now(), exp.usedIDs())
	exp.Entrepreneur = append(exp.Entrepreneur, entry)
	return entry
}

func (c *Controller) UpdateEntrepreneur(id int64, entry EntrepreneurEntry) error {
	exp := &c.session.State.Experience
	for i := range exp.Entrepreneur {
		if exp.Entrepreneur[i].ID == id {
			entry.ID = id
			exp.Entrepreneur[i] = entry
			return nil
		}
	}
	return fmt.Errorf("%w: entrepreneur %d", ErrEntryNotFound, id)
}

func (c *Controller) RemoveEntrepreneur(id int64) error {
	exp := &c.session.State.Experience
	for i := range exp.Entrepreneur {
		if exp.Entrepreneur[i].ID == id {
			exp.Entrepreneur = append(exp.Entrepreneur[:i], exp.Entrepreneur[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: entrepreneur %d", ErrEntryNotFound, id)
}

// SetOpenToWork toggles the gate. Details are kept when the gate closes.
func (c *Controller) SetOpenToWork(open bool, details *OpenToWorkDetails) {
	exp := &c.session.State.Experience
	exp.IsOpenToWork = open
	if details != nil {
		exp.OpenToWorkDetails = *details
	}
}

// SetProfilePhoto replaces the pending photo; nil removes it.
func (c *Controller) SetProfilePhoto(photo *Attachment) {
	c.session.State.Personal.ProfilePhoto = photo
}

func (c *Controller) SetReceipt(receipt *Attachment) {
	c.session.State.Payment.Receipt = receipt
	if !receipt.Empty() {
		delete(c.session.Errors, PaymentReceipt)
	}
}
