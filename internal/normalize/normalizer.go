// Package normalize maps the heterogeneous JSON documents recovered from
// model output onto the canonical record shapes, deduplicating list fields.
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/heona1231/2025HciProject/internal/types"
)

// EventRecordFrom decodes a recovered model document into the canonical event
// record. Missing fields stay zero-valued rather than failing the decode; the
// model regularly omits sections a flyer does not mention.
func EventRecordFrom(doc json.RawMessage) (*types.EventRecord, error) {
	m, err := asMap(doc)
	if err != nil {
		return nil, err
	}

	record := &types.EventRecord{
		Title:    pickString(m, titleAliases),
		Contents: dedupeContents(pickContents(m)),
		Benefits: DedupeStrings(pickStringSlice(m, benefitsAliases)),
		Goods:    DedupeGoods(pickGoods(m, goodsListAliases)),
	}

	if overview := pickOverview(m); overview != nil {
		record.Overview = overview
	}

	if reservation := pickReservation(m); reservation != nil {
		record.Reservation = reservation
	}

	if entrance := pickEntrance(m); entrance != nil {
		record.Entrance = entrance
	}

	return record, nil
}

// GoodsResultFrom decodes a recovered model document into the image-analysis
// goods result.
func GoodsResultFrom(doc json.RawMessage) (*types.GoodsResult, error) {
	m, err := asMap(doc)
	if err != nil {
		return nil, err
	}

	return &types.GoodsResult{
		Goods:    DedupeGoods(pickGoods(m, goodsListAliases)),
		Benefits: DedupeStrings(pickStringSlice(m, benefitsAliases)),
	}, nil
}

// PastEventFeedbackFrom decodes a recovered model document into past-event
// feedback. Sentiment lists are decoded here; similarity dedup is the
// feedback package's job.
func PastEventFeedbackFrom(doc json.RawMessage) (*types.PastEventFeedback, error) {
	m, err := asMap(doc)
	if err != nil {
		return nil, err
	}

	result := &types.PastEventFeedback{
		PastEvents: pickPastEvents(m),
	}

	fb, _ := pick(m, feedbackAliases)

	fbMap, ok := fb.(map[string]any)
	if !ok {
		// Some outputs flatten the feedback object to the top level.
		fbMap = m
	}

	result.Feedback.Goods = pickFeedbackItems(fbMap, goodsFbAliases)

	contents, _ := pick(fbMap, contentsFbAliases)
	if contentsMap, ok := contents.(map[string]any); ok {
		result.Feedback.Contents.Positive = pickFeedbackItems(contentsMap, positiveAliases)
		result.Feedback.Contents.Negative = pickFeedbackItems(contentsMap, negativeAliases)
	}

	if result.Feedback.Goods == nil {
		result.Feedback.Goods = []types.FeedbackItem{}
	}

	if result.Feedback.Contents.Positive == nil {
		result.Feedback.Contents.Positive = []types.FeedbackItem{}
	}

	if result.Feedback.Contents.Negative == nil {
		result.Feedback.Contents.Negative = []types.FeedbackItem{}
	}

	return result, nil
}

// DedupeGoods removes goods entries sharing the same (name, price) pair
func DedupeGoods(goods []types.GoodsItem) []types.GoodsItem {
	seen := make(map[string]struct{}, len(goods))
	out := make([]types.GoodsItem, 0, len(goods))

	for _, item := range goods {
		if item.Name == "" && item.Price == "" {
			continue
		}

		key := normalizeKey(item.Name) + "\x00" + normalizeKey(item.Price)
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, item)
	}

	return out
}

// DedupeStrings removes entries that are equal after case and whitespace
// normalization, keeping first occurrences in order.
func DedupeStrings(values []string) []string {
	nonEmpty := lo.Filter(values, func(v string, _ int) bool {
		return normalizeKey(v) != ""
	})

	return lo.UniqBy(nonEmpty, normalizeKey)
}

// dedupeContents removes content entries with duplicate titles
func dedupeContents(contents []types.EventContent) []types.EventContent {
	seen := make(map[string]struct{}, len(contents))
	out := make([]types.EventContent, 0, len(contents))

	for _, c := range contents {
		key := normalizeKey(c.Title)
		if key == "" {
			continue
		}

		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, c)
	}

	return out
}

// normalizeKey lowercases and collapses whitespace for equality comparison
func normalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func asMap(doc json.RawMessage) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnObject, err)
	}

	return m, nil
}

// pick returns the value of the first alias present in the map
func pick(m map[string]any, aliases []string) (any, bool) {
	for _, alias := range aliases {
		if v, ok := m[alias]; ok && v != nil {
			return v, true
		}
	}

	return nil, false
}

func pickString(m map[string]any, aliases []string) string {
	v, ok := pick(m, aliases)
	if !ok {
		return ""
	}

	return asString(v)
}

func pickStringSlice(m map[string]any, aliases []string) []string {
	v, ok := pick(m, aliases)
	if !ok {
		return nil
	}

	items, ok := v.([]any)
	if !ok {
		if s := asString(v); s != "" {
			return []string{s}
		}

		return nil
	}

	out := make([]string, 0, len(items))

	for _, item := range items {
		if s := asString(item); s != "" {
			out = append(out, s)
		}
	}

	return out
}

func pickGoods(m map[string]any, aliases []string) []types.GoodsItem {
	v, ok := pick(m, aliases)
	if !ok {
		return nil
	}

	items, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]types.GoodsItem, 0, len(items))

	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}

		idx := -1
		if _, ok := pick(entry, sourceImageAliases); ok {
			idx = pickInt(entry, sourceImageAliases)
		}

		out = append(out, types.GoodsItem{
			Name:             pickString(entry, goodsNameAliases),
			Price:            pickString(entry, priceAliases),
			SourceImageIndex: idx,
		})
	}

	return out
}

func pickContents(m map[string]any) []types.EventContent {
	v, ok := pick(m, contentsAliases)
	if !ok {
		return nil
	}

	items, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]types.EventContent, 0, len(items))

	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}

		out = append(out, types.EventContent{
			Title:       pickString(entry, contentTitleAlias),
			Description: pickString(entry, descriptionAliases),
		})
	}

	return out
}

func pickOverview(m map[string]any) *types.EventOverview {
	overview := &types.EventOverview{}

	v, present := pick(m, overviewAliases)

	switch nested := v.(type) {
	case map[string]any:
		overview.Address = pickString(nested, addressAliases)
		overview.DailyHours = pickString(nested, dailyHoursAliases)
		overview.DateRange = pickDateRange(nested)
	case string:
		// The original page-analysis schema emitted event_overview as a
		// one-line summary string with schedule fields at the top level.
		overview.Address = nested
	}

	// Top-level schedule keys fill whatever the overview object left empty.
	if overview.DailyHours == "" {
		overview.DailyHours = pickString(m, dailyHoursAliases)
	}

	if overview.DateRange == (types.DateRange{}) {
		overview.DateRange = pickDateRange(m)
	}

	if overview.Address == "" {
		overview.Address = pickString(m, addressAliases)
	}

	if !present && overview.Address == "" && overview.DailyHours == "" && overview.DateRange == (types.DateRange{}) {
		return nil
	}

	return overview
}

func pickDateRange(m map[string]any) types.DateRange {
	v, ok := pick(m, dateRangeAliases)
	if !ok {
		return types.DateRange{}
	}

	switch dr := v.(type) {
	case map[string]any:
		return types.DateRange{
			StartDate:    pickString(dr, startDateAliases),
			EndDate:      pickString(dr, endDateAliases),
			DurationDays: pickInt(dr, durationAliases),
		}
	case string:
		return types.DateRange{StartDate: dr}
	}

	return types.DateRange{}
}

func pickReservation(m map[string]any) *types.ReservationInfo {
	v, ok := pick(m, reservationAliases)
	if !ok {
		return nil
	}

	nested, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	return &types.ReservationInfo{
		OpenDate: pickString(nested, openDateAliases),
		Method:   pickString(nested, methodAliases),
		Notes:    pickString(nested, notesAliases),
	}
}

func pickEntrance(m map[string]any) *types.EntranceInfo {
	v, ok := pick(m, entranceAliases)
	if !ok {
		return nil
	}

	nested, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	return &types.EntranceInfo{
		EntryTime:   pickString(nested, entryTimeAliases),
		EntryMethod: pickString(nested, entryMethodAliases),
		EntryItems:  DedupeStrings(pickStringSlice(nested, entryItemsAliases)),
	}
}

func pickPastEvents(m map[string]any) []types.PastEventRef {
	v, ok := pick(m, pastEventsAliases)
	if !ok {
		return []types.PastEventRef{}
	}

	items, ok := v.([]any)
	if !ok {
		return []types.PastEventRef{}
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]types.PastEventRef, 0, len(items))

	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}

		ref := types.PastEventRef{
			Title: pickString(entry, contentTitleAlias),
			Link:  pickString(entry, linkAliases),
		}

		key := normalizeKey(ref.Title)
		if key == "" {
			continue
		}

		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, ref)
	}

	return out
}

func pickFeedbackItems(m map[string]any, aliases []string) []types.FeedbackItem {
	v, ok := pick(m, aliases)
	if !ok {
		return nil
	}

	items, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]types.FeedbackItem, 0, len(items))

	for _, item := range items {
		switch entry := item.(type) {
		case map[string]any:
			out = append(out, types.FeedbackItem{
				Title:       pickString(entry, contentTitleAlias),
				Description: pickString(entry, descriptionAliases),
			})
		case string:
			if entry != "" {
				out = append(out, types.FeedbackItem{Description: entry})
			}
		}
	}

	return out
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

func pickInt(m map[string]any, aliases []string) int {
	v, ok := pick(m, aliases)
	if !ok {
		return 0
	}

	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return parsed
		}
	}

	return 0
}
