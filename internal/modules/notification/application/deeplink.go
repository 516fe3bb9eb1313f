package application

import (
	"github.com/saransh1220/sifline/internal/modules/notification/domain"
)

// RouteResolver is the default deep link resolver: an explicit deep link in
// the payload wins, otherwise the notification kind determines the route.
type RouteResolver struct{}

func NewRouteResolver() *RouteResolver {
	return &RouteResolver{}
}

func (RouteResolver) Resolve(n *domain.Notification) (domain.NavigationTarget, error) {
	if n.Payload != nil && n.Payload.DeepLink != "" {
		return domain.NavigationTarget{Route: n.Payload.DeepLink}, nil
	}

	params := map[string]string{}
	if n.Payload != nil {
		if n.Payload.SifID != "" {
			params["sif_id"] = n.Payload.SifID
		}
		if n.Payload.ChatID != "" {
			params["chat_id"] = n.Payload.ChatID
		}
		if n.Payload.TemplateID != "" {
			params["template_id"] = n.Payload.TemplateID
		}
		if n.Payload.SenderID != "" {
			params["sender_id"] = n.Payload.SenderID
		}
	}
	if len(params) == 0 {
		params = nil
	}

	var route string
	switch n.Kind {
	case domain.KindSifReceived, domain.KindSifDelivered, domain.KindSifReminder:
		route = "sifs/view"
	case domain.KindFriendRequest:
		route = "friends/requests"
	case domain.KindFriendAccepted:
		route = "friends"
	case domain.KindMessageReceived:
		route = "chats/view"
	case domain.KindTemplateShared:
		route = "templates/view"
	case domain.KindAchievement:
		route = "profile/achievements"
	default:
		route = "notifications"
	}
	return domain.NavigationTarget{Route: route, Params: params}, nil
}
