package enum

// ── Group A: Constrained in DB (enum types or CHECK) ──

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
	OrderStatusRefunded  = "refunded"
)

const (
	OrderTypeDelivery = "delivery"
	OrderTypeDineIn   = "dine-in"
	OrderTypeTakeAway = "take-away"
)

const (
	PaymentMethodCash  = "cash"
	PaymentMethodCard  = "card"
	PaymentMethodQR    = "qr"
	PaymentMethodSplit = "split"
)

const (
	UserRoleAdmin   = "admin"
	UserRoleCashier = "cashier"
)

const (
	SizeSmall = "Small"
	SizeLarge = "Large"
)

const (
	TemperatureHot  = "Hot"
	TemperatureCold = "Cold"
)

const (
	AdjustmentAddition   = "addition"
	AdjustmentDeduction  = "deduction"
	AdjustmentAdjustment = "adjustment"
)

// ── Group B: Request-only labels (never stored as-is) ──

const (
	DiscountTypePercentage = "percentage"
	DiscountTypeAmount     = "amount"
	DiscountTypeNone       = "none"
)
