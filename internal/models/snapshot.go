package models

// Snapshot is the complete operational dataset at one point in time. Slice
// order is insertion order and is preserved across load/save; it doubles as
// the stable tiebreak for reports.
type Snapshot struct {
	Users         []User             `json:"users"`
	Buses         []Bus              `json:"buses"`
	Routes        []Route            `json:"routes"`
	Trips         []Trip             `json:"trips"`
	Bookings      []Booking          `json:"bookings"`
	Payments      []Payment          `json:"payments"`
	Attendance    []AttendanceRecord `json:"attendance"`
	Notifications []Notification     `json:"notifications"`
	Announcements []Announcement     `json:"announcements"`
}

// NewSnapshot returns an empty snapshot with initialized collections.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Users:         []User{},
		Buses:         []Bus{},
		Routes:        []Route{},
		Trips:         []Trip{},
		Bookings:      []Booking{},
		Payments:      []Payment{},
		Attendance:    []AttendanceRecord{},
		Notifications: []Notification{},
		Announcements: []Announcement{},
	}
}

// The lookup helpers return pointers into the snapshot's own slices so
// writers can mutate records in place; callers must not retain them past the
// operation that loaded the snapshot.

func (s *Snapshot) UserByID(id string) *User {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i]
		}
	}
	return nil
}

// StudentByID resolves a user that must have the student role.
func (s *Snapshot) StudentByID(id string) *User {
	u := s.UserByID(id)
	if u == nil || u.Role != RoleStudent {
		return nil
	}
	return u
}

func (s *Snapshot) BusByID(id string) *Bus {
	for i := range s.Buses {
		if s.Buses[i].ID == id {
			return &s.Buses[i]
		}
	}
	return nil
}

func (s *Snapshot) RouteByID(id string) *Route {
	for i := range s.Routes {
		if s.Routes[i].ID == id {
			return &s.Routes[i]
		}
	}
	return nil
}

func (s *Snapshot) TripByID(id string) *Trip {
	for i := range s.Trips {
		if s.Trips[i].ID == id {
			return &s.Trips[i]
		}
	}
	return nil
}

func (s *Snapshot) BookingByID(id string) *Booking {
	for i := range s.Bookings {
		if s.Bookings[i].ID == id {
			return &s.Bookings[i]
		}
	}
	return nil
}

func (s *Snapshot) PaymentByID(id string) *Payment {
	for i := range s.Payments {
		if s.Payments[i].ID == id {
			return &s.Payments[i]
		}
	}
	return nil
}

// AttendanceFor returns the unique record for a (studentId, tripId) pair.
func (s *Snapshot) AttendanceFor(studentID, tripID string) *AttendanceRecord {
	for i := range s.Attendance {
		if s.Attendance[i].StudentID == studentID && s.Attendance[i].TripID == tripID {
			return &s.Attendance[i]
		}
	}
	return nil
}

// HasCompletedPayment reports whether any payment for the student settled.
// This is the subscription gate for bus assignment.
func (s *Snapshot) HasCompletedPayment(studentID string) bool {
	for i := range s.Payments {
		if s.Payments[i].StudentID == studentID && s.Payments[i].Status == PaymentCompleted {
			return true
		}
	}
	return false
}

// BusOfStudent returns the bus currently holding the student on its roster,
// if any.
func (s *Snapshot) BusOfStudent(studentID string) *Bus {
	for i := range s.Buses {
		if s.Buses[i].HasStudent(studentID) {
			return &s.Buses[i]
		}
	}
	return nil
}
