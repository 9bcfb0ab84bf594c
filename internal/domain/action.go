package domain

// ActionKind identifies a triage outcome.
type ActionKind string

const (
	ActionDeliverNow ActionKind = "deliver_now"
	ActionHold       ActionKind = "hold"
	ActionBundle     ActionKind = "bundle"
	ActionSuppress   ActionKind = "suppress"
	ActionEscalate   ActionKind = "escalate"
)

func (k ActionKind) String() string {
	return string(k)
}

// DeliveryStrategy controls when a held notification leaves the queue.
type DeliveryStrategy string

const (
	// DeliveryImmediate entries are dequeued on the next drain tick.
	DeliveryImmediate DeliveryStrategy = "immediate"
	// DeliveryBatched entries are dequeued in groups up to a max batch
	// size per tick.
	DeliveryBatched DeliveryStrategy = "batched"
	// DeliveryScheduled entries carry a deliver-after instant and are
	// excluded from dequeue until it passes.
	DeliveryScheduled DeliveryStrategy = "scheduled"
	// DeliveryDigest entries behave like batched entries but render as
	// a single summary on delivery.
	DeliveryDigest DeliveryStrategy = "digest"
)

func (s DeliveryStrategy) String() string {
	return string(s)
}

// Grouped reports whether the strategy drains in bounded groups rather
// than one entry per slot.
func (s DeliveryStrategy) Grouped() bool {
	return s == DeliveryBatched || s == DeliveryDigest
}

// BundleStrategy determines how a bundle key is computed.
type BundleStrategy string

const (
	BundleBySender   BundleStrategy = "by_sender"
	BundleByApp      BundleStrategy = "by_app"
	BundleByCategory BundleStrategy = "by_category"
	BundleSmart      BundleStrategy = "smart"
)

func (s BundleStrategy) String() string {
	return string(s)
}

// Action is the closed set of triage outcomes. Exactly one concrete
// type exists per ActionKind; consumers switch on the concrete type
// and never see a kind without its payload.
type Action interface {
	Kind() ActionKind
	isAction()
}

type DeliverNowAction struct{}

func (DeliverNowAction) Kind() ActionKind { return ActionDeliverNow }
func (DeliverNowAction) isAction()        {}

type HoldAction struct {
	Priority Priority
	Strategy DeliveryStrategy
}

func (HoldAction) Kind() ActionKind { return ActionHold }
func (HoldAction) isAction()        {}

type BundleAction struct {
	Strategy BundleStrategy
}

func (BundleAction) Kind() ActionKind { return ActionBundle }
func (BundleAction) isAction()        {}

type SuppressAction struct {
	Reason string
}

func (SuppressAction) Kind() ActionKind { return ActionSuppress }
func (SuppressAction) isAction()        {}

type EscalateAction struct{}

func (EscalateAction) Kind() ActionKind { return ActionEscalate }
func (EscalateAction) isAction()        {}
