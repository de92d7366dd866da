package types

// GoodsItem is a single merchandise entry extracted from an announcement
type GoodsItem struct {
	// Name is the merchandise name
	Name string `json:"goods_name" example:"아크릴 스탠드" description:"Merchandise name"`
	// Price is the listed price, kept as text because flyers mix currencies and free-form notes
	Price string `json:"price" example:"15,000원" description:"Listed price text"`
	// SourceImageIndex is the index of the uploaded image the item came from, -1 for link analysis
	SourceImageIndex int `json:"source_image_index" description:"Index of the source image, -1 when extracted from a page"`
}

// DateRange describes when an event runs
type DateRange struct {
	StartDate    string `json:"start_date,omitempty" example:"2025-03-01"`
	EndDate      string `json:"end_date,omitempty" example:"2025-03-09"`
	DurationDays int    `json:"duration_days,omitempty" example:"9"`
}

// EventOverview holds the where/when summary of an event
type EventOverview struct {
	Address    string    `json:"address,omitempty" description:"Venue address"`
	DateRange  DateRange `json:"date_range" description:"Event date range"`
	DailyHours string    `json:"daily_hours,omitempty" example:"11:00 - 20:00" description:"Daily opening hours"`
}

// ReservationInfo holds how visitors reserve entry
type ReservationInfo struct {
	OpenDate string `json:"open_date,omitempty" description:"When reservations open"`
	Method   string `json:"method,omitempty" description:"How to reserve"`
	Notes    string `json:"notes,omitempty" description:"Reservation caveats"`
}

// EntranceInfo holds how visitors get in on the day
type EntranceInfo struct {
	EntryTime   string   `json:"entry_time,omitempty" description:"Entry time or slot information"`
	EntryMethod string   `json:"entry_method,omitempty" description:"How entry is handled"`
	EntryItems  []string `json:"entry_items,omitempty" description:"Items required or handed out at entry"`
}

// EventContent is one program, zone, or activity inside an event
type EventContent struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// EventRecord is the canonical structured record produced for one announcement
type EventRecord struct {
	// Title is the event title
	Title string `json:"event_title" example:"팝업스토어 OPEN" description:"Event title"`
	// Overview summarizes venue and schedule
	Overview *EventOverview `json:"event_overview,omitempty" description:"Venue and schedule summary"`
	// Reservation describes how to reserve entry
	Reservation *ReservationInfo `json:"reservation_info,omitempty" description:"Reservation details"`
	// Entrance describes day-of entry
	Entrance *EntranceInfo `json:"entrance_info,omitempty" description:"Entry details"`
	// Contents lists programs and activities
	Contents []EventContent `json:"event_contents,omitempty" description:"Programs and activities"`
	// Benefits lists visitor perks, deduplicated after normalization
	Benefits []string `json:"event_benefits,omitempty" description:"Visitor perks"`
	// Goods lists merchandise, unique by (name, price)
	Goods []GoodsItem `json:"goods_list,omitempty" description:"Merchandise list"`
}

// GoodsResult is the image-analysis result shape: merchandise plus perks
type GoodsResult struct {
	Goods    []GoodsItem `json:"goods_list" description:"Merchandise extracted from flyer images"`
	Benefits []string    `json:"event_benefits" description:"Perks extracted from flyer images"`
}

// PastEventRef points at a similar past event found via search
type PastEventRef struct {
	Title string `json:"title"`
	Link  string `json:"link,omitempty"`
}

// FeedbackItem is one piece of visitor feedback about a past event
type FeedbackItem struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ContentFeedback splits visitor feedback about event contents by sentiment
type ContentFeedback struct {
	Positive []FeedbackItem `json:"positive"`
	Negative []FeedbackItem `json:"negative"`
}

// Feedback groups visitor feedback about a set of past events
type Feedback struct {
	// Goods collects merchandise feedback
	Goods []FeedbackItem `json:"goods"`
	// Contents collects content feedback split by sentiment
	Contents ContentFeedback `json:"contents"`
}

// PastEventFeedback aggregates what visitors said about similar past events
type PastEventFeedback struct {
	// PastEvents lists similar events found via live search
	PastEvents []PastEventRef `json:"past_events_list" description:"Similar past events"`
	// Feedback holds visitor feedback grouped by subject
	Feedback Feedback `json:"feedback" description:"Visitor feedback grouped by subject"`
}
