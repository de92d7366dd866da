package inference

// Schema is a response schema in the generative service's declaration format.
// Type names are the service's uppercase convention.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

const (
	typeObject = "OBJECT"
	typeString = "STRING"
	typeNumber = "NUMBER"
	typeArray  = "ARRAY"
)

func str() *Schema { return &Schema{Type: typeString} }
func num() *Schema { return &Schema{Type: typeNumber} }
func arrayOf(items *Schema) *Schema { return &Schema{Type: typeArray, Items: items} }

// EventRecordSchema declares the structured shape requested for page analysis
func EventRecordSchema() *Schema {
	return &Schema{
		Type: typeObject,
		Properties: map[string]*Schema{
			"event_title": str(),
			"event_overview": {
				Type: typeObject,
				Properties: map[string]*Schema{
					"address": str(),
					"date_range": {
						Type: typeObject,
						Properties: map[string]*Schema{
							"start_date":    str(),
							"end_date":      str(),
							"duration_days": num(),
						},
					},
					"daily_hours": str(),
				},
			},
			"reservation_info": {
				Type: typeObject,
				Properties: map[string]*Schema{
					"open_date": str(),
					"method":    str(),
					"notes":     str(),
				},
			},
			"entrance_info": {
				Type: typeObject,
				Properties: map[string]*Schema{
					"entry_time":   str(),
					"entry_method": str(),
					"entry_items":  arrayOf(str()),
				},
			},
			"event_contents": arrayOf(&Schema{
				Type: typeObject,
				Properties: map[string]*Schema{
					"title":       str(),
					"description": str(),
				},
			}),
			"event_benefits": arrayOf(str()),
			"goods_list": arrayOf(&Schema{
				Type: typeObject,
				Properties: map[string]*Schema{
					"goods_name": str(),
					"price":      str(),
				},
			}),
		},
		Required: []string{"event_title", "event_overview", "reservation_info"},
	}
}

// GoodsSchema declares the structured shape requested for flyer image analysis
func GoodsSchema() *Schema {
	return &Schema{
		Type: typeObject,
		Properties: map[string]*Schema{
			"goods_list": arrayOf(&Schema{
				Type: typeObject,
				Properties: map[string]*Schema{
					"goods_name": str(),
					"price":      str(),
				},
			}),
			"event_benefits": arrayOf(str()),
		},
		Required: []string{"goods_list"},
	}
}
