package enums

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeOrderPlaced   NotificationType = "order_placed"
	NotificationTypeOrderStatus   NotificationType = "order_status"
	NotificationTypeOrderAssigned NotificationType = "order_assigned"
	NotificationTypeLowStock      NotificationType = "low_stock"
	NotificationTypeStockExpired  NotificationType = "stock_expired"
	NotificationTypeSystem        NotificationType = "system"
)

var notificationTypes = []NotificationType{
	NotificationTypeOrderPlaced,
	NotificationTypeOrderStatus,
	NotificationTypeOrderAssigned,
	NotificationTypeLowStock,
	NotificationTypeStockExpired,
	NotificationTypeSystem,
}

func (n NotificationType) String() string { return string(n) }

func (n NotificationType) IsValid() bool {
	_, err := ParseNotificationType(string(n))
	return err == nil
}

func ParseNotificationType(value string) (NotificationType, error) {
	return parse(notificationTypes, value, "notification type")
}
