package services_test

import (
	"context"
	"testing"

	"github.com/finch-money/finch/internal/apperrors"
	"github.com/finch-money/finch/internal/core/domain"
	portssvc "github.com/finch-money/finch/internal/core/ports/services"
	"github.com/finch-money/finch/internal/core/services"
	"github.com/finch-money/finch/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type subscriptionServiceMocks struct {
	subRepo     *MockSubscriptionRepository
	accountRepo *MockAccountRepository
	itemRepo    *MockItemRepository
}

func newSubscriptionServiceForTest(t *testing.T) (portssvc.SubscriptionSvcFacade, *subscriptionServiceMocks) {
	t.Helper()
	m := &subscriptionServiceMocks{
		subRepo:     new(MockSubscriptionRepository),
		accountRepo: new(MockAccountRepository),
		itemRepo:    new(MockItemRepository),
	}
	svc := services.NewSubscriptionService(m.subRepo, m.accountRepo, m.itemRepo)
	return svc, m
}

func detectedSubscription() *domain.Subscription {
	return &domain.Subscription{
		SubscriptionID: "sub-1",
		AccountID:      "acct-1",
		Name:           "SPOTIFY USA XXX",
		Pattern:        `^SPOTIFY\s+USA\s+\S+$`,
		IsNew:          true,
		IsTracked:      false,
		IsActive:       true,
	}
}

func TestUpdateSubscriptionClearsNewFlag(t *testing.T) {
	svc, m := newSubscriptionServiceForTest(t)
	m.subRepo.On("FindSubscriptionByID", mock.Anything, "sub-1").Return(detectedSubscription(), nil)
	m.accountRepo.On("FindAccountByID", mock.Anything, "acct-1").Return(unsyncedAccount(), nil)
	m.itemRepo.On("FindItemByID", mock.Anything, "item-1").Return(testItem("user-1"), nil)
	m.subRepo.On("UpdateSubscriptionFlags", mock.Anything, "sub-1", false, true, true, mock.Anything).Return(nil)

	tracked := true
	resp, err := svc.UpdateSubscription(context.Background(), "user-1", "sub-1", dto.UpdateSubscriptionRequest{IsTracked: &tracked})

	require.NoError(t, err)
	assert.False(t, resp.IsNew)
	assert.True(t, resp.IsTracked)
	assert.True(t, resp.IsActive)
	m.subRepo.AssertExpectations(t)
}

func TestUpdateSubscriptionRejectingAlsoConfirms(t *testing.T) {
	svc, m := newSubscriptionServiceForTest(t)
	m.subRepo.On("FindSubscriptionByID", mock.Anything, "sub-1").Return(detectedSubscription(), nil)
	m.accountRepo.On("FindAccountByID", mock.Anything, "acct-1").Return(unsyncedAccount(), nil)
	m.itemRepo.On("FindItemByID", mock.Anything, "item-1").Return(testItem("user-1"), nil)
	m.subRepo.On("UpdateSubscriptionFlags", mock.Anything, "sub-1", false, false, false, mock.Anything).Return(nil)

	active := false
	resp, err := svc.UpdateSubscription(context.Background(), "user-1", "sub-1", dto.UpdateSubscriptionRequest{IsActive: &active})

	require.NoError(t, err)
	assert.False(t, resp.IsNew)
	assert.False(t, resp.IsActive)
}

func TestUpdateSubscriptionForbiddenForOtherUsers(t *testing.T) {
	svc, m := newSubscriptionServiceForTest(t)
	m.subRepo.On("FindSubscriptionByID", mock.Anything, "sub-1").Return(detectedSubscription(), nil)
	m.accountRepo.On("FindAccountByID", mock.Anything, "acct-1").Return(unsyncedAccount(), nil)
	m.itemRepo.On("FindItemByID", mock.Anything, "item-1").Return(testItem("someone-else"), nil)

	tracked := true
	_, err := svc.UpdateSubscription(context.Background(), "user-1", "sub-1", dto.UpdateSubscriptionRequest{IsTracked: &tracked})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	m.subRepo.AssertNotCalled(t, "UpdateSubscriptionFlags", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListSubscriptions(t *testing.T) {
	svc, m := newSubscriptionServiceForTest(t)
	m.accountRepo.On("FindAccountByID", mock.Anything, "acct-1").Return(unsyncedAccount(), nil)
	m.itemRepo.On("FindItemByID", mock.Anything, "item-1").Return(testItem("user-1"), nil)
	m.subRepo.On("FindSubscriptionsByAccountID", mock.Anything, "acct-1").Return([]domain.Subscription{*detectedSubscription()}, nil)

	subs, err := svc.ListSubscriptions(context.Background(), "user-1", "acct-1")

	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "sub-1", subs[0].SubscriptionID)
}
