package domain

import (
	"context"

	"github.com/personachat/backend/internal/domain/badge"
	"github.com/personachat/backend/internal/model"
	"github.com/personachat/backend/internal/repository"
	"github.com/personachat/backend/pkg/errorx"
	"github.com/personachat/backend/pkg/xcontext"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

type AchievementDomain interface {
	StartSession(context.Context, *model.StartSessionRequest) (*model.StartSessionResponse, error)
	EndSession(context.Context, *model.EndSessionRequest) (*model.EndSessionResponse, error)
	Track(context.Context, *model.TrackRequest) (*model.TrackResponse, error)
	NewConversation(context.Context, *model.NewConversationRequest) (*model.NewConversationResponse, error)
	GetMyProgress(context.Context, *model.GetMyProgressRequest) (*model.GetMyProgressResponse, error)
	GetCatalog(context.Context, *model.GetCatalogRequest) (*model.GetCatalogResponse, error)
	GetToasts(context.Context, *model.GetToastsRequest) (*model.GetToastsResponse, error)
	DismissToast(context.Context, *model.DismissToastRequest) (*model.DismissToastResponse, error)
	GetMyNotifications(context.Context, *model.GetMyNotificationsRequest) (*model.GetMyNotificationsResponse, error)
	ReadNotifications(context.Context, *model.ReadNotificationsRequest) (*model.ReadNotificationsResponse, error)
}

type achievementDomain struct {
	notificationRepo repository.NotificationRepository
	badgeManager     *badge.Manager
}

func NewAchievementDomain(
	notificationRepo repository.NotificationRepository,
	badgeManager *badge.Manager,
) *achievementDomain {
	return &achievementDomain{
		notificationRepo: notificationRepo,
		badgeManager:     badgeManager,
	}
}

func (d *achievementDomain) StartSession(
	ctx context.Context, req *model.StartSessionRequest,
) (*model.StartSessionResponse, error) {
	tracker, err := d.badgeManager.Login(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		return nil, err
	}

	listing := badge.Listing(d.badgeManager.Catalog(), tracker.Snapshot())
	return &model.StartSessionResponse{Progress: convertListing(listing)}, nil
}

func (d *achievementDomain) EndSession(
	ctx context.Context, req *model.EndSessionRequest,
) (*model.EndSessionResponse, error) {
	if err := d.badgeManager.Logout(ctx, xcontext.RequestUserID(ctx)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot stop badge tracker: %v", err)
		return nil, errorx.Unknown
	}

	return &model.EndSessionResponse{}, nil
}

// Track never fails because of the engine. Anonymous users and users without
// session are ignored.
func (d *achievementDomain) Track(
	ctx context.Context, req *model.TrackRequest,
) (*model.TrackResponse, error) {
	event := badge.EventKind(req.Event)
	if !d.badgeManager.Catalog().KnowsEvent(event) {
		return nil, errorx.New(errorx.UnknownEvent, "Unknown event %s", req.Event)
	}

	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return &model.TrackResponse{}, nil
	}

	d.badgeManager.Track(ctx, userID, event, req.Payload)
	return &model.TrackResponse{}, nil
}

func (d *achievementDomain) NewConversation(
	ctx context.Context, req *model.NewConversationRequest,
) (*model.NewConversationResponse, error) {
	d.badgeManager.ResetScopedCounters(xcontext.RequestUserID(ctx))
	return &model.NewConversationResponse{}, nil
}

func (d *achievementDomain) GetMyProgress(
	ctx context.Context, req *model.GetMyProgressRequest,
) (*model.GetMyProgressResponse, error) {
	tracker, err := d.tracker(ctx)
	if err != nil {
		return nil, err
	}

	listing := badge.Listing(d.badgeManager.Catalog(), tracker.Snapshot())
	return &model.GetMyProgressResponse{Progress: convertListing(listing)}, nil
}

func (d *achievementDomain) GetCatalog(
	ctx context.Context, req *model.GetCatalogRequest,
) (*model.GetCatalogResponse, error) {
	badges := []model.Badge{}
	for _, e := range badge.Listing(d.badgeManager.Catalog(), nil) {
		badges = append(badges, convertBadge(e.Badge))
	}

	return &model.GetCatalogResponse{Badges: badges}, nil
}

func (d *achievementDomain) GetToasts(
	ctx context.Context, req *model.GetToastsRequest,
) (*model.GetToastsResponse, error) {
	tracker, err := d.tracker(ctx)
	if err != nil {
		return nil, err
	}

	toasts := []model.Toast{}
	for _, t := range tracker.Toasts() {
		toasts = append(toasts, convertToast(t))
	}

	return &model.GetToastsResponse{Toasts: toasts}, nil
}

func (d *achievementDomain) DismissToast(
	ctx context.Context, req *model.DismissToastRequest,
) (*model.DismissToastResponse, error) {
	tracker, err := d.tracker(ctx)
	if err != nil {
		return nil, err
	}

	if !tracker.DismissToast(req.ID) {
		return nil, errorx.New(errorx.NotFound, "Not found toast")
	}

	return &model.DismissToastResponse{}, nil
}

func (d *achievementDomain) GetMyNotifications(
	ctx context.Context, req *model.GetMyNotificationsRequest,
) (*model.GetMyNotificationsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	if req.Limit == 0 {
		req.Limit = defaultNotificationLimit
	}

	if req.Limit < 0 || req.Limit > maxNotificationLimit {
		return nil, errorx.New(errorx.BadRequest, "Limit must be in range [1, %d]", maxNotificationLimit)
	}

	if req.Offset < 0 {
		return nil, errorx.New(errorx.BadRequest, "Offset must not be negative")
	}

	notifications, err := d.notificationRepo.GetList(ctx, userID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get notifications: %v", err)
		return nil, errorx.Unknown
	}

	unread, err := d.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count unread notifications: %v", err)
		return nil, errorx.Unknown
	}

	clientNotifications := []model.Notification{}
	for i := range notifications {
		clientNotifications = append(clientNotifications, convertNotification(&notifications[i]))
	}

	return &model.GetMyNotificationsResponse{
		Notifications: clientNotifications,
		Unread:        unread,
	}, nil
}

// ReadNotifications marks the given notifications as read, or every
// notification of the user if no id is given.
func (d *achievementDomain) ReadNotifications(
	ctx context.Context, req *model.ReadNotificationsRequest,
) (*model.ReadNotificationsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	if err := d.notificationRepo.MarkRead(ctx, userID, req.IDs...); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mark notifications as read: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ReadNotificationsResponse{}, nil
}

func (d *achievementDomain) tracker(ctx context.Context) (*badge.Tracker, error) {
	tracker, ok := d.badgeManager.Get(xcontext.RequestUserID(ctx))
	if !ok {
		return nil, errorx.New(errorx.NoSession, "Start a session before")
	}

	return tracker, nil
}
