package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campus-transit/shuttle-ops-api/internal/engine"
	"github.com/campus-transit/shuttle-ops-api/internal/models"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
	"github.com/campus-transit/shuttle-ops-api/pkg/export"
)

const revenueWindowMonths = 6

// AnalyticsService computes the derived, joined views over a single
// consistent snapshot: trip enrichment, fleet performance, route
// utilization, revenue trends and student statistics. Everything is
// re-derived per request; indexes are request-scoped maps, never a second
// source of truth. Dangling foreign keys resolve to absent summaries.
type AnalyticsService struct {
	engine *engine.Engine
	logger *zap.Logger
}

// NewAnalyticsService constructs the analytics service.
func NewAnalyticsService(eng *engine.Engine, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{engine: eng, logger: logger}
}

// TripDetail returns one trip enriched with its related entities and
// booking/payment/attendance rollups.
func (s *AnalyticsService) TripDetail(ctx context.Context, tripID string) (*models.TripDetail, error) {
	var detail *models.TripDetail
	err := s.engine.View(ctx, func(snap *models.Snapshot) error {
		trip := snap.TripByID(tripID)
		if trip == nil {
			return appErrors.Clone(appErrors.ErrNotFound, "trip not found")
		}
		detail = enrichTrip(snap, trip)
		return nil
	})
	return detail, err
}

// TripDetails returns every trip enriched, in snapshot order.
func (s *AnalyticsService) TripDetails(ctx context.Context) ([]models.TripDetail, error) {
	var out []models.TripDetail
	err := s.engine.View(ctx, func(snap *models.Snapshot) error {
		out = make([]models.TripDetail, 0, len(snap.Trips))
		for i := range snap.Trips {
			out = append(out, *enrichTrip(snap, &snap.Trips[i]))
		}
		return nil
	})
	return out, err
}

func enrichTrip(snap *models.Snapshot, trip *models.Trip) *models.TripDetail {
	detail := &models.TripDetail{Trip: *trip}

	if route := snap.RouteByID(trip.RouteID); route != nil {
		detail.Route = &models.RouteSummary{ID: route.ID, Name: route.Name, StartPoint: route.StartPoint, EndPoint: route.EndPoint}
	}
	var capacity int
	if bus := snap.BusByID(trip.BusID); bus != nil {
		detail.Bus = &models.BusSummary{ID: bus.ID, Number: bus.Number, Capacity: bus.Capacity, Status: bus.Status}
		capacity = bus.Capacity
	}
	if driver := snap.UserByID(trip.DriverID); driver != nil {
		detail.Driver = &models.UserSummary{ID: driver.ID, Name: driver.Name, Role: driver.Role}
	}
	if trip.SupervisorID != "" {
		if sup := snap.UserByID(trip.SupervisorID); sup != nil {
			detail.Supervisor = &models.UserSummary{ID: sup.ID, Name: sup.Name, Role: sup.Role}
		}
	}

	detail.Bookings = models.BookingRollup{ByStatus: map[string]int{}}
	for _, b := range snap.Bookings {
		if b.TripID != trip.ID {
			continue
		}
		detail.Bookings.Total++
		detail.Bookings.ByStatus[string(b.Status)]++
	}

	detail.Payments = models.PaymentRollup{ByStatus: map[string]int{}}
	for _, p := range snap.Payments {
		if p.TripID != trip.ID {
			continue
		}
		detail.Payments.Total++
		detail.Payments.ByStatus[string(p.Status)]++
		if p.Status == models.PaymentCompleted {
			detail.Payments.Revenue = round2(detail.Payments.Revenue + p.Amount)
		}
	}

	for _, a := range snap.Attendance {
		if a.TripID != trip.ID {
			continue
		}
		detail.Attendance.Total++
		switch a.Status {
		case models.AttendancePresent:
			detail.Attendance.Present++
		case models.AttendanceAbsent:
			detail.Attendance.Absent++
		}
	}
	detail.Attendance.Rate = pct(float64(detail.Attendance.Present), float64(detail.Attendance.Total))

	detail.DurationMinutes = engine.TripDurationMinutes(trip.StartTime, trip.EndTime)
	detail.Utilization = pct(float64(trip.Passengers), float64(capacity))

	return detail
}

// FleetPerformance aggregates per-bus trip outcomes, revenue, utilization
// and a maintenance flag derived from the service interval.
func (s *AnalyticsService) FleetPerformance(ctx context.Context) ([]models.BusPerformance, error) {
	var out []models.BusPerformance
	err := s.engine.View(ctx, func(snap *models.Snapshot) error {
		now := s.engine.Now()

		tripsByBus := make(map[string][]*models.Trip, len(snap.Buses))
		for i := range snap.Trips {
			t := &snap.Trips[i]
			tripsByBus[t.BusID] = append(tripsByBus[t.BusID], t)
		}
		revenueByTrip := make(map[string]float64)
		for _, p := range snap.Payments {
			if p.Status == models.PaymentCompleted && p.TripID != "" {
				revenueByTrip[p.TripID] += p.Amount
			}
		}

		out = make([]models.BusPerformance, 0, len(snap.Buses))
		for i := range snap.Buses {
			bus := &snap.Buses[i]
			perf := models.BusPerformance{
				BusID:         bus.ID,
				Number:        bus.Number,
				Capacity:      bus.Capacity,
				TripsByStatus: map[string]int{},
			}

			var completed int
			var completedMinutes float64
			for _, t := range tripsByBus[bus.ID] {
				perf.TotalTrips++
				perf.TripsByStatus[string(t.Status)]++
				perf.TotalPassengers += t.Passengers
				perf.TotalRevenue = round2(perf.TotalRevenue + revenueByTrip[t.ID])
				if t.Status == models.TripCompleted {
					completed++
					completedMinutes += float64(engine.TripDurationMinutes(t.StartTime, t.EndTime))
				}
			}
			perf.CompletionRate = pct(float64(completed), float64(perf.TotalTrips))
			perf.Utilization = pct(float64(perf.TotalPassengers), float64(bus.Capacity*perf.TotalTrips))
			if completed > 0 {
				perf.AvgTripDuration = round2(completedMinutes / float64(completed))
			}
			perf.MaintenanceStatus = maintenanceStatus(bus, now)

			out = append(out, perf)
		}
		return nil
	})
	return out, err
}

func maintenanceStatus(bus *models.Bus, now time.Time) string {
	if bus.LastMaintenance == nil || bus.MaintenanceInterval <= 0 {
		return models.MaintenanceOK
	}
	due := bus.LastMaintenance.AddDate(0, 0, bus.MaintenanceInterval)
	switch {
	case now.After(due):
		return models.MaintenanceOverdue
	case due.Sub(now) <= 7*24*time.Hour:
		return models.MaintenanceDueSoon
	default:
		return models.MaintenanceOK
	}
}

// RouteUtilization reports bookings against the seat capacity deployed on
// each route's trips. Cancelled bookings do not count as ridership.
func (s *AnalyticsService) RouteUtilization(ctx context.Context) ([]models.RouteUtilization, error) {
	var out []models.RouteUtilization
	err := s.engine.View(ctx, func(snap *models.Snapshot) error {
		bookingsByTrip := make(map[string]int)
		for _, b := range snap.Bookings {
			if b.Status != models.BookingCancelled {
				bookingsByTrip[b.TripID]++
			}
		}

		out = make([]models.RouteUtilization, 0, len(snap.Routes))
		for i := range snap.Routes {
			route := &snap.Routes[i]
			ru := models.RouteUtilization{RouteID: route.ID, Name: route.Name}
			for j := range snap.Trips {
				t := &snap.Trips[j]
				if t.RouteID != route.ID {
					continue
				}
				ru.TotalTrips++
				ru.TotalBookings += bookingsByTrip[t.ID]
				if bus := snap.BusByID(t.BusID); bus != nil {
					ru.TotalCapacity += bus.Capacity
				}
			}
			ru.Utilization = pct(float64(ru.TotalBookings), float64(ru.TotalCapacity))
			out = append(out, ru)
		}
		return nil
	})
	return out, err
}

// MonthlyRevenue sums settled payments over a rolling window of the last
// six months including the current one, oldest first.
func (s *AnalyticsService) MonthlyRevenue(ctx context.Context) ([]models.RevenueBucket, error) {
	var out []models.RevenueBucket
	err := s.engine.View(ctx, func(snap *models.Snapshot) error {
		out = revenueWindow(snap, s.engine.Now())
		return nil
	})
	return out, err
}

func revenueWindow(snap *models.Snapshot, now time.Time) []models.RevenueBucket {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	buckets := make([]models.RevenueBucket, 0, revenueWindowMonths)
	index := make(map[string]int, revenueWindowMonths)
	for i := revenueWindowMonths - 1; i >= 0; i-- {
		month := first.AddDate(0, -i, 0).Format("2006-01")
		index[month] = len(buckets)
		buckets = append(buckets, models.RevenueBucket{Month: month})
	}

	for _, p := range snap.Payments {
		if p.Status != models.PaymentCompleted {
			continue
		}
		if i, ok := index[p.Date.Format("2006-01")]; ok {
			buckets[i].Revenue = round2(buckets[i].Revenue + p.Amount)
		}
	}
	return buckets
}

// StudentStatistics aggregates one student's bookings and payments,
// including a monthly breakdown over the revenue window.
func (s *AnalyticsService) StudentStatistics(ctx context.Context, studentID string) (*models.StudentStatistics, error) {
	var stats *models.StudentStatistics
	err := s.engine.View(ctx, func(snap *models.Snapshot) error {
		if snap.StudentByID(studentID) == nil {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}

		now := s.engine.Now()
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		monthly := make([]models.StudentMonthly, 0, revenueWindowMonths)
		index := make(map[string]int, revenueWindowMonths)
		for i := revenueWindowMonths - 1; i >= 0; i-- {
			month := first.AddDate(0, -i, 0).Format("2006-01")
			index[month] = len(monthly)
			monthly = append(monthly, models.StudentMonthly{Month: month})
		}

		stats = &models.StudentStatistics{
			StudentID:        studentID,
			BookingsByStatus: map[string]int{},
			PaymentsByMethod: map[string]int{},
			PaymentsByStatus: map[string]int{},
		}

		for _, b := range snap.Bookings {
			if b.StudentID != studentID {
				continue
			}
			stats.TotalBookings++
			stats.BookingsByStatus[string(b.Status)]++
			if i, ok := index[b.Date.Format("2006-01")]; ok {
				monthly[i].Bookings++
			}
		}
		for _, p := range snap.Payments {
			if p.StudentID != studentID {
				continue
			}
			stats.TotalPayments++
			stats.PaymentsByMethod[string(p.Method)]++
			stats.PaymentsByStatus[string(p.Status)]++
			if p.Status == models.PaymentCompleted {
				stats.TotalSpent = round2(stats.TotalSpent + p.Amount)
				if i, ok := index[p.Date.Format("2006-01")]; ok {
					monthly[i].Spend = round2(monthly[i].Spend + p.Amount)
				}
			}
		}
		stats.Monthly = monthly
		return nil
	})
	return stats, err
}

// FleetReportDataset shapes fleet performance for the exporters.
func (s *AnalyticsService) FleetReportDataset(ctx context.Context) (export.Dataset, error) {
	perfs, err := s.FleetPerformance(ctx)
	if err != nil {
		return export.Dataset{}, err
	}

	data := export.Dataset{
		Headers: []string{"Bus", "Capacity", "Trips", "Completion %", "Passengers", "Revenue", "Utilization %", "Avg Duration (min)", "Maintenance"},
	}
	for _, p := range perfs {
		data.Rows = append(data.Rows, map[string]string{
			"Bus":                p.Number,
			"Capacity":           fmt.Sprintf("%d", p.Capacity),
			"Trips":              fmt.Sprintf("%d", p.TotalTrips),
			"Completion %":       fmt.Sprintf("%.2f", p.CompletionRate),
			"Passengers":         fmt.Sprintf("%d", p.TotalPassengers),
			"Revenue":            fmt.Sprintf("%.2f", p.TotalRevenue),
			"Utilization %":      fmt.Sprintf("%.2f", p.Utilization),
			"Avg Duration (min)": fmt.Sprintf("%.2f", p.AvgTripDuration),
			"Maintenance":        p.MaintenanceStatus,
		})
	}
	return data, nil
}

// RouteReportDataset shapes route utilization for the exporters.
func (s *AnalyticsService) RouteReportDataset(ctx context.Context) (export.Dataset, error) {
	utils, err := s.RouteUtilization(ctx)
	if err != nil {
		return export.Dataset{}, err
	}

	data := export.Dataset{
		Headers: []string{"Route", "Trips", "Bookings", "Capacity", "Utilization %"},
	}
	for _, u := range utils {
		data.Rows = append(data.Rows, map[string]string{
			"Route":         u.Name,
			"Trips":         fmt.Sprintf("%d", u.TotalTrips),
			"Bookings":      fmt.Sprintf("%d", u.TotalBookings),
			"Capacity":      fmt.Sprintf("%d", u.TotalCapacity),
			"Utilization %": fmt.Sprintf("%.2f", u.Utilization),
		})
	}
	return data, nil
}
