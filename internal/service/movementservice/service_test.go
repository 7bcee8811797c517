package movementservice_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"estoque/internal/domain"
	apperror "estoque/internal/errors"
	"estoque/internal/pkg/logger"
	"estoque/internal/service/movementservice"
)

type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Save(ctx context.Context, mv domain.Movement) (domain.Movement, error) {
	args := m.Called(ctx, mv)
	return args.Get(0).(domain.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindAll(ctx context.Context) ([]domain.MovementView, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.MovementView), args.Error(1)
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }

func strPtr(s string) *string { return &s }

func TestRecordMovement_Transfer(t *testing.T) {
	mockRepo := new(MockMovementRepository)
	inv := &countingInvalidator{}
	svc := movementservice.NewService(mockRepo, inv, logger.NewNopLogger())

	matches := mock.MatchedBy(func(m domain.Movement) bool {
		return m.ID != "" && m.ProductID == "p1" && m.Qty == 30 &&
			m.FromLocation != nil && *m.FromLocation == "l1" &&
			m.ToLocation != nil && *m.ToLocation == "l2"
	})
	saved := domain.Movement{ID: "m1", Timestamp: time.Now(), ProductID: "p1", FromLocation: strPtr("l1"), ToLocation: strPtr("l2"), Qty: 30}
	mockRepo.On("Save", mock.Anything, matches).Return(saved, nil)

	got, err := svc.RecordMovement(context.Background(), domain.RecordMovementRequest{ProductID: "p1", Qty: 30, FromLocation: "l1", ToLocation: "l2"})

	require.NoError(t, err)
	assert.Equal(t, saved, got)
	assert.Equal(t, 1, inv.calls)
	mockRepo.AssertExpectations(t)
}

func TestRecordMovement_InboundHasNilSource(t *testing.T) {
	mockRepo := new(MockMovementRepository)
	svc := movementservice.NewService(mockRepo, &countingInvalidator{}, logger.NewNopLogger())

	inbound := mock.MatchedBy(func(m domain.Movement) bool {
		return m.FromLocation == nil && m.ToLocation != nil && *m.ToLocation == "l1"
	})
	mockRepo.On("Save", mock.Anything, inbound).Return(domain.Movement{ID: "m1"}, nil)

	_, err := svc.RecordMovement(context.Background(), domain.RecordMovementRequest{ProductID: "p1", Qty: 100, FromLocation: "  ", ToLocation: "l1"})

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRecordMovement_OutboundHasNilDestination(t *testing.T) {
	mockRepo := new(MockMovementRepository)
	svc := movementservice.NewService(mockRepo, &countingInvalidator{}, logger.NewNopLogger())

	outbound := mock.MatchedBy(func(m domain.Movement) bool {
		return m.ToLocation == nil && m.FromLocation != nil && *m.FromLocation == "l1"
	})
	mockRepo.On("Save", mock.Anything, outbound).Return(domain.Movement{ID: "m1"}, nil)

	_, err := svc.RecordMovement(context.Background(), domain.RecordMovementRequest{ProductID: "p1", Qty: 5, FromLocation: "l1"})

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRecordMovement_Rejected(t *testing.T) {
	tests := []struct {
		name string
		req  domain.RecordMovementRequest
	}{
		{"quantidade zero", domain.RecordMovementRequest{ProductID: "p1", Qty: 0, ToLocation: "l1"}},
		{"quantidade negativa", domain.RecordMovementRequest{ProductID: "p1", Qty: -3, ToLocation: "l1"}},
		{"quantidade acima de INTEGER", domain.RecordMovementRequest{ProductID: "p1", Qty: math.MaxInt32 + 1, ToLocation: "l1"}},
		{"sem produto", domain.RecordMovementRequest{Qty: 10, ToLocation: "l1"}},
		{"sem locais", domain.RecordMovementRequest{ProductID: "p1", Qty: 10}},
		{"origem igual ao destino", domain.RecordMovementRequest{ProductID: "p1", Qty: 10, FromLocation: "l1", ToLocation: "l1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockMovementRepository)
			inv := &countingInvalidator{}
			svc := movementservice.NewService(mockRepo, inv, logger.NewNopLogger())

			_, err := svc.RecordMovement(context.Background(), tt.req)

			assert.True(t, apperror.IsValidation(err))
			assert.Equal(t, 0, inv.calls)
			mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestRecordMovement_UnknownReferencePropagates(t *testing.T) {
	mockRepo := new(MockMovementRepository)
	inv := &countingInvalidator{}
	svc := movementservice.NewService(mockRepo, inv, logger.NewNopLogger())

	mockRepo.On("Save", mock.Anything, mock.Anything).Return(domain.Movement{}, apperror.NewValidationError("Produto informado não existe."))

	_, err := svc.RecordMovement(context.Background(), domain.RecordMovementRequest{ProductID: "ghost", Qty: 1, ToLocation: "l1"})

	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, 0, inv.calls)
}

func TestRecordMovement_StorageFailure(t *testing.T) {
	mockRepo := new(MockMovementRepository)
	svc := movementservice.NewService(mockRepo, &countingInvalidator{}, logger.NewNopLogger())

	mockRepo.On("Save", mock.Anything, mock.Anything).Return(domain.Movement{}, errors.New("disco cheio"))

	_, err := svc.RecordMovement(context.Background(), domain.RecordMovementRequest{ProductID: "p1", Qty: 1, ToLocation: "l1"})

	status, _, _ := apperror.MapToHTTPStatus(err)
	assert.Equal(t, 500, status)
}

func TestListMovements_Success(t *testing.T) {
	mockRepo := new(MockMovementRepository)
	svc := movementservice.NewService(mockRepo, &countingInvalidator{}, logger.NewNopLogger())

	views := []domain.MovementView{
		{Movement: domain.Movement{ID: "m2", ProductID: "p1", Qty: 30}, ProductName: "Widget"},
		{Movement: domain.Movement{ID: "m1", ProductID: "p1", Qty: 100}, ProductName: "Widget"},
	}
	mockRepo.On("FindAll", mock.Anything).Return(views, nil)

	got, err := svc.ListMovements(context.Background())

	require.NoError(t, err)
	assert.Equal(t, views, got)
}

func TestRecordMovement_AcceptsLargestStorableQty(t *testing.T) {
	mockRepo := new(MockMovementRepository)
	svc := movementservice.NewService(mockRepo, &countingInvalidator{}, logger.NewNopLogger())

	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(m domain.Movement) bool { return m.Qty == math.MaxInt32 })).
		Return(domain.Movement{ID: "m1", Qty: math.MaxInt32}, nil)

	_, err := svc.RecordMovement(context.Background(), domain.RecordMovementRequest{ProductID: "p1", Qty: math.MaxInt32, ToLocation: "l1"})

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
