package normalize

// The generative service is asked for exact field names but does not always
// comply: it may emit camelCase variants, synonyms, or Korean key names for
// the same concept. Each canonical field carries an ordered alias list and the
// first present key wins.
var (
	titleAliases       = []string{"event_title", "eventTitle", "title", "name", "행사명", "이벤트명", "제목"}
	overviewAliases    = []string{"event_overview", "eventOverview", "overview", "행사개요", "개요"}
	addressAliases     = []string{"address", "location", "venue", "place", "주소", "장소", "위치"}
	dateRangeAliases   = []string{"date_range", "dateRange", "dates", "period", "기간", "일정"}
	startDateAliases   = []string{"start_date", "startDate", "start", "from", "시작일"}
	endDateAliases     = []string{"end_date", "endDate", "end", "to", "종료일"}
	durationAliases    = []string{"duration_days", "durationDays", "duration", "일수"}
	dailyHoursAliases  = []string{"daily_hours", "dailyHours", "hours", "operating_hours", "운영시간", "운영 시간"}
	reservationAliases = []string{"reservation_info", "reservationInfo", "reservation", "예매정보", "예약정보"}
	openDateAliases    = []string{"open_date", "openDate", "opens", "오픈일", "오픈"}
	methodAliases      = []string{"method", "how", "방법", "방식"}
	notesAliases       = []string{"notes", "requirements", "note", "유의사항", "주의사항"}
	entranceAliases    = []string{"entrance_info", "entranceInfo", "entrance", "entry", "입장정보"}
	entryTimeAliases   = []string{"entry_time", "entryTime", "time", "입장시간"}
	entryMethodAliases = []string{"entry_method", "entryMethod", "입장방법"}
	entryItemsAliases  = []string{"entry_items", "entryItems", "items", "입장준비물", "준비물"}
	contentsAliases    = []string{"event_contents", "eventContents", "contents", "programs", "콘텐츠", "프로그램"}
	benefitsAliases    = []string{"event_benefits", "eventBenefits", "benefits", "perks", "특전", "혜택"}
	goodsListAliases   = []string{"goods_list", "goodsList", "goods", "merchandise", "products", "굿즈", "굿즈목록", "상품목록"}
	goodsNameAliases   = []string{"goods_name", "goodsName", "name", "item", "상품명", "품명", "이름"}
	priceAliases       = []string{"price", "cost", "가격", "금액"}
	sourceImageAliases = []string{"source_image_index", "sourceImageIndex", "image_index"}
	descriptionAliases = []string{"description", "desc", "detail", "설명", "내용"}
	contentTitleAlias  = []string{"title", "name", "제목", "이름"}
	linkAliases        = []string{"link", "url", "href", "링크"}
	pastEventsAliases  = []string{"past_events_list", "past_events", "pastEvents", "similar_events", "과거행사", "과거 행사"}
	feedbackAliases    = []string{"feedback", "reviews", "후기", "피드백"}
	goodsFbAliases     = []string{"goods", "goods_feedback", "goodsFeedback", "굿즈"}
	contentsFbAliases  = []string{"contents", "content_feedback", "contentFeedback", "콘텐츠"}
	positiveAliases    = []string{"positive", "pros", "good", "긍정", "장점"}
	negativeAliases    = []string{"negative", "cons", "bad", "부정", "단점"}
)
