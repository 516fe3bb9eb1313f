package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/saransh1220/sifline/internal/modules/notification/domain"
	"go.uber.org/zap"
)

// ActionKind names an operation the processor can apply to a notification.
type ActionKind string

const (
	ActionView    ActionKind = "view"
	ActionArchive ActionKind = "archive"
	ActionDelete  ActionKind = "delete"
	ActionReply   ActionKind = "reply"
	ActionCustom  ActionKind = "custom"
)

// BatchFailure records one id the batch could not process.
type BatchFailure struct {
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
}

// BatchResult is the partial-success report of a batch action. Batches
// always run to completion; one bad id never blocks the rest.
type BatchResult struct {
	SucceededIDs []uuid.UUID    `json:"succeeded_ids"`
	Failed       []BatchFailure `json:"failed"`
}

// ActionProcessor executes single and batch actions against the store with
// consistent idempotence semantics: view, archive and delete on an id
// already in the target state succeed without side effects.
type ActionProcessor struct {
	store    *Store
	repo     domain.NotificationRepository
	sender   domain.ReplySender
	resolver domain.DeepLinkResolver
	logger   *zap.Logger

	dispatch map[ActionKind]func(ctx context.Context, id uuid.UUID, arg string) error
}

func NewActionProcessor(store *Store, repo domain.NotificationRepository, sender domain.ReplySender, resolver domain.DeepLinkResolver, logger *zap.Logger) *ActionProcessor {
	p := &ActionProcessor{
		store:    store,
		repo:     repo,
		sender:   sender,
		resolver: resolver,
		logger:   logger,
	}
	p.dispatch = map[ActionKind]func(ctx context.Context, id uuid.UUID, arg string) error{
		ActionView:    p.view,
		ActionArchive: p.archive,
		ActionDelete:  p.delete,
		ActionReply:   p.reply,
		ActionCustom:  p.custom,
	}
	return p
}

// Do applies one action to one notification and surfaces model errors
// directly.
func (p *ActionProcessor) Do(ctx context.Context, id uuid.UUID, kind ActionKind, arg string) error {
	run, ok := p.dispatch[kind]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownAction, kind)
	}
	err := run(ctx, id, arg)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	actionsTotal.WithLabelValues(string(kind), outcome).Inc()
	return err
}

// DoBatch applies the same action to every id in the selection. Per-item
// failures are collected, never thrown: the report always covers the whole
// selection.
func (p *ActionProcessor) DoBatch(ctx context.Context, ids []uuid.UUID, kind ActionKind, arg string) BatchResult {
	result := BatchResult{
		SucceededIDs: make([]uuid.UUID, 0, len(ids)),
		Failed:       []BatchFailure{},
	}
	for _, id := range ids {
		if err := p.Do(ctx, id, kind, arg); err != nil {
			result.Failed = append(result.Failed, BatchFailure{ID: id, Reason: err.Error()})
			continue
		}
		result.SucceededIDs = append(result.SucceededIDs, id)
	}
	return result
}

func (p *ActionProcessor) view(ctx context.Context, id uuid.UUID, _ string) error {
	updated, err := p.store.Update(id, func(n *domain.Notification) error {
		return n.MarkRead()
	})
	if err != nil {
		return err
	}
	p.persistState(ctx, &updated)
	return nil
}

func (p *ActionProcessor) archive(ctx context.Context, id uuid.UUID, _ string) error {
	updated, err := p.store.Update(id, func(n *domain.Notification) error {
		return n.Archive()
	})
	if err != nil {
		return err
	}
	p.persistState(ctx, &updated)
	return nil
}

func (p *ActionProcessor) delete(ctx context.Context, id uuid.UUID, _ string) error {
	p.store.Remove(id)
	if err := p.repo.Delete(ctx, id); err != nil {
		p.logger.Warn("notification delete persist failed",
			zap.String("id", id.String()), zap.Error(err))
	}
	return nil
}

// reply sends the text through the messaging collaborator and marks the
// source notification read on success. On send failure the notification is
// left untouched so the user can retry; the core never retries itself.
func (p *ActionProcessor) reply(ctx context.Context, id uuid.UUID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrEmptyReply
	}

	n, err := p.store.Get(id)
	if err != nil {
		return err
	}
	if n.Payload == nil || n.Payload.ChatID == "" {
		return fmt.Errorf("%w: notification has no chat", domain.ErrUnknownAction)
	}

	if err := p.sender.Send(ctx, n.Payload.ChatID, text); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSendFailed, err)
	}

	updated, err := p.store.Update(id, func(n *domain.Notification) error {
		return n.MarkRead()
	})
	if err != nil {
		// The reply went out; an unreadable source state is not a send
		// failure.
		if errors.Is(err, domain.ErrInvalidTransition) {
			p.logger.Debug("reply sent but source not markable as read",
				zap.String("id", id.String()), zap.Error(err))
			return nil
		}
		return err
	}
	p.persistState(ctx, &updated)
	return nil
}

// custom dispatches an action declared on the notification itself. The arg
// is the declared action id; the outcome is a navigation hand-off to the
// deep link resolver.
func (p *ActionProcessor) custom(_ context.Context, id uuid.UUID, actionID string) error {
	n, err := p.store.Get(id)
	if err != nil {
		return err
	}
	action, ok := n.ActionByID(actionID)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownAction, actionID)
	}

	target, err := p.resolver.Resolve(&n)
	if err != nil {
		return err
	}
	p.logger.Info("custom action dispatched",
		zap.String("id", id.String()),
		zap.String("action", action.ID),
		zap.String("route", target.Route))
	return nil
}

// Resolve exposes deep link resolution for the interface layer.
func (p *ActionProcessor) Resolve(n *domain.Notification) (domain.NavigationTarget, error) {
	return p.resolver.Resolve(n)
}

func (p *ActionProcessor) persistState(ctx context.Context, n *domain.Notification) {
	if err := p.repo.UpdateState(ctx, n); err != nil {
		p.logger.Warn("notification state persist failed",
			zap.String("id", n.ID.String()), zap.Error(err))
	}
}
