package models

// Summary shapes embedded in derived views. A dangling foreign key resolves
// to a nil summary, never an error.

type UserSummary struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Role UserRole `json:"role"`
}

type BusSummary struct {
	ID       string    `json:"id"`
	Number   string    `json:"number"`
	Capacity int       `json:"capacity"`
	Status   BusStatus `json:"status"`
}

type RouteSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	StartPoint string `json:"startPoint"`
	EndPoint   string `json:"endPoint"`
}

// BookingRollup counts bookings attached to a trip.
type BookingRollup struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}

// PaymentRollup counts payments and sums settled revenue for a trip.
type PaymentRollup struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
	Revenue  float64        `json:"revenue"`
}

// AttendanceRollup summarises attendance marks for a trip.
type AttendanceRollup struct {
	Total   int     `json:"total"`
	Present int     `json:"present"`
	Absent  int     `json:"absent"`
	Rate    float64 `json:"rate"` // present / total * 100, 0 when empty
}

// TripDetail is a trip joined with its related entities and rollups.
type TripDetail struct {
	Trip
	Route           *RouteSummary    `json:"route"`
	Bus             *BusSummary      `json:"bus"`
	Driver          *UserSummary     `json:"driver"`
	Supervisor      *UserSummary     `json:"supervisor"`
	Bookings        BookingRollup    `json:"bookings"`
	Payments        PaymentRollup    `json:"payments"`
	Attendance      AttendanceRollup `json:"attendance"`
	DurationMinutes int              `json:"durationMinutes"`
	Utilization     float64          `json:"utilization"` // passengers / capacity * 100
}

// BusPerformance aggregates per-bus fleet metrics.
type BusPerformance struct {
	BusID             string         `json:"busId"`
	Number            string         `json:"number"`
	Capacity          int            `json:"capacity"`
	TotalTrips        int            `json:"totalTrips"`
	TripsByStatus     map[string]int `json:"tripsByStatus"`
	CompletionRate    float64        `json:"completionRate"`
	TotalPassengers   int            `json:"totalPassengers"`
	TotalRevenue      float64        `json:"totalRevenue"`
	Utilization       float64        `json:"utilization"`
	AvgTripDuration   float64        `json:"avgTripDuration"` // minutes, completed trips only
	MaintenanceStatus string         `json:"maintenanceStatus"`
}

// RouteUtilization reports ridership against the capacity deployed on a route.
type RouteUtilization struct {
	RouteID       string  `json:"routeId"`
	Name          string  `json:"name"`
	TotalTrips    int     `json:"totalTrips"`
	TotalBookings int     `json:"totalBookings"`
	TotalCapacity int     `json:"totalCapacity"`
	Utilization   float64 `json:"utilization"`
}

// RevenueBucket is one month of settled revenue.
type RevenueBucket struct {
	Month   string  `json:"month"` // "2006-01"
	Revenue float64 `json:"revenue"`
}

// StudentMonthly is one month of a student's activity.
type StudentMonthly struct {
	Month    string  `json:"month"`
	Bookings int     `json:"bookings"`
	Spend    float64 `json:"spend"`
}

// StudentStatistics aggregates a single student's bookings and payments.
type StudentStatistics struct {
	StudentID        string           `json:"studentId"`
	TotalBookings    int              `json:"totalBookings"`
	BookingsByStatus map[string]int   `json:"bookingsByStatus"`
	TotalPayments    int              `json:"totalPayments"`
	TotalSpent       float64          `json:"totalSpent"` // completed payments only
	PaymentsByMethod map[string]int   `json:"paymentsByMethod"`
	PaymentsByStatus map[string]int   `json:"paymentsByStatus"`
	Monthly          []StudentMonthly `json:"monthly"`
}
