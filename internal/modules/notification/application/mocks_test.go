package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saransh1220/sifline/internal/modules/notification/domain"
)

type notificationRepoMock struct {
	insertFn      func(context.Context, *domain.Notification) error
	updateStateFn func(context.Context, *domain.Notification) error
	deleteFn      func(context.Context, uuid.UUID) error
	loadPageFn    func(context.Context, uuid.UUID, string, int) ([]domain.Notification, string, error)
}

func (m notificationRepoMock) Insert(ctx context.Context, n *domain.Notification) error {
	if m.insertFn == nil {
		return nil
	}
	return m.insertFn(ctx, n)
}

func (m notificationRepoMock) UpdateState(ctx context.Context, n *domain.Notification) error {
	if m.updateStateFn == nil {
		return nil
	}
	return m.updateStateFn(ctx, n)
}

func (m notificationRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, id)
}

func (m notificationRepoMock) LoadPage(ctx context.Context, recipientID uuid.UUID, cursor string, limit int) ([]domain.Notification, string, error) {
	if m.loadPageFn == nil {
		return nil, "", nil
	}
	return m.loadPageFn(ctx, recipientID, cursor, limit)
}

type settingsRepoMock struct {
	loadFn func(context.Context, uuid.UUID) (*domain.UserNotificationSettings, error)
	saveFn func(context.Context, domain.UserNotificationSettings) error
}

func (m settingsRepoMock) Load(ctx context.Context, uid uuid.UUID) (*domain.UserNotificationSettings, error) {
	if m.loadFn == nil {
		return nil, nil
	}
	return m.loadFn(ctx, uid)
}

func (m settingsRepoMock) Save(ctx context.Context, s domain.UserNotificationSettings) error {
	if m.saveFn == nil {
		return nil
	}
	return m.saveFn(ctx, s)
}

type snapshotStoreMock struct {
	saveFn   func(context.Context, domain.UserNotificationSettings, time.Time) error
	latestFn func(context.Context, uuid.UUID) (*domain.UserNotificationSettings, error)
}

func (m snapshotStoreMock) Save(ctx context.Context, s domain.UserNotificationSettings, at time.Time) error {
	if m.saveFn == nil {
		return nil
	}
	return m.saveFn(ctx, s, at)
}

func (m snapshotStoreMock) Latest(ctx context.Context, uid uuid.UUID) (*domain.UserNotificationSettings, error) {
	if m.latestFn == nil {
		return nil, domain.ErrNoSnapshot
	}
	return m.latestFn(ctx, uid)
}

type replySenderMock struct {
	sendFn func(context.Context, string, string) error
}

func (m replySenderMock) Send(ctx context.Context, chatID, text string) error {
	if m.sendFn == nil {
		return nil
	}
	return m.sendFn(ctx, chatID, text)
}

type settingsProviderMock struct {
	currentFn func(context.Context, uuid.UUID) (domain.UserNotificationSettings, error)
}

func (m settingsProviderMock) Current(ctx context.Context, uid uuid.UUID) (domain.UserNotificationSettings, error) {
	if m.currentFn == nil {
		return domain.DefaultSettings(uid), nil
	}
	return m.currentFn(ctx, uid)
}

type broadcasterMock struct {
	sent []uuid.UUID
}

func (m *broadcasterMock) SendToUser(uid uuid.UUID, _ []byte) {
	m.sent = append(m.sent, uid)
}

func storedNotification(state domain.State) domain.Notification {
	return domain.Notification{
		ID:          uuid.New(),
		RecipientID: uuid.New(),
		Kind:        domain.KindSifReceived,
		Title:       "Title",
		Body:        "Body",
		Priority:    domain.PriorityNormal,
		State:       state,
		CreatedAt:   time.Now(),
	}
}
