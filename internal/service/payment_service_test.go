package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-transit/shuttle-ops-api/internal/models"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
)

func paymentFixture() *models.Snapshot {
	snap := models.NewSnapshot()
	snap.Users = append(snap.Users, seedStudent("stu-1"), seedSupervisor("sup-1"), seedSupervisor("sup-2"))
	snap.Buses = append(snap.Buses, seedBus("bus-1", "B-101", 30))
	trip := seedTrip("trip-1", "route-1", "bus-1")
	trip.SupervisorID = "sup-1"
	snap.Trips = append(snap.Trips, trip)
	return snap
}

func TestCreatePayment_CashStartsPending(t *testing.T) {
	svc := NewPaymentService(newTestEngine(paymentFixture()), nil, nil)

	payment, err := svc.Create(context.Background(), CreatePaymentRequest{
		StudentID: "stu-1",
		TripID:    "trip-1",
		Amount:    150,
		Method:    "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, models.MethodCash, payment.Method)
	assert.Equal(t, models.PaymentPending, payment.Status)
}

func TestCreatePayment_NonCashCanonicalizesToBankCompleted(t *testing.T) {
	svc := NewPaymentService(newTestEngine(paymentFixture()), nil, nil)

	for _, method := range []string{"bank", "visa", "mobile_wallet", "whatever"} {
		payment, err := svc.Create(context.Background(), CreatePaymentRequest{
			StudentID: "stu-1",
			Amount:    99.99,
			Method:    method,
		})
		require.NoError(t, err, method)
		assert.Equal(t, models.MethodBank, payment.Method, method)
		assert.Equal(t, models.PaymentCompleted, payment.Status, method)
	}
}

func TestCreatePayment_Validation(t *testing.T) {
	svc := NewPaymentService(newTestEngine(paymentFixture()), nil, nil)

	_, err := svc.Create(context.Background(), CreatePaymentRequest{StudentID: "stu-1", Amount: 0, Method: "cash"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.Create(context.Background(), CreatePaymentRequest{StudentID: "ghost", Amount: 10, Method: "cash"})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Create(context.Background(), CreatePaymentRequest{StudentID: "stu-1", TripID: "ghost", Amount: 10, Method: "cash"})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestSettlePayment_OnlyTripSupervisor(t *testing.T) {
	eng := newTestEngine(paymentFixture())
	svc := NewPaymentService(eng, nil, nil)

	payment, err := svc.Create(context.Background(), CreatePaymentRequest{
		StudentID: "stu-1",
		TripID:    "trip-1",
		Amount:    150,
		Method:    "cash",
	})
	require.NoError(t, err)

	// Ownership is checked before the status, so a foreign supervisor gets
	// Forbidden rather than learning whether the payment is settleable.
	_, err = svc.Settle(context.Background(), "sup-2", payment.ID, SettlePaymentRequest{Status: "completed"})
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	settled, err := svc.Settle(context.Background(), "sup-1", payment.ID, SettlePaymentRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, settled.Status)
}

func TestSettlePayment_TerminalIsFinal(t *testing.T) {
	eng := newTestEngine(paymentFixture())
	svc := NewPaymentService(eng, nil, nil)

	payment, err := svc.Create(context.Background(), CreatePaymentRequest{
		StudentID: "stu-1",
		TripID:    "trip-1",
		Amount:    150,
		Method:    "cash",
	})
	require.NoError(t, err)

	_, err = svc.Settle(context.Background(), "sup-1", payment.ID, SettlePaymentRequest{Status: "failed"})
	require.NoError(t, err)

	_, err = svc.Settle(context.Background(), "sup-1", payment.ID, SettlePaymentRequest{Status: "completed"})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))
}

func TestSettlePayment_BadStatusValue(t *testing.T) {
	svc := NewPaymentService(newTestEngine(paymentFixture()), nil, nil)

	_, err := svc.Settle(context.Background(), "sup-1", "pay-x", SettlePaymentRequest{Status: "pending"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestSettlePayment_NoTripIsForbidden(t *testing.T) {
	eng := newTestEngine(paymentFixture())
	svc := NewPaymentService(eng, nil, nil)

	payment, err := svc.Create(context.Background(), CreatePaymentRequest{
		StudentID: "stu-1",
		Amount:    150,
		Method:    "cash",
	})
	require.NoError(t, err)

	_, err = svc.Settle(context.Background(), "sup-1", payment.ID, SettlePaymentRequest{Status: "completed"})
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestDeletePayment(t *testing.T) {
	eng := newTestEngine(paymentFixture())
	svc := NewPaymentService(eng, nil, nil)

	payment, err := svc.Create(context.Background(), CreatePaymentRequest{
		StudentID: "stu-1",
		Amount:    150,
		Method:    "bank",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), payment.ID))

	err = svc.Delete(context.Background(), payment.ID)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	payments, err := svc.List(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Empty(t, payments)
}
