package configurator

import "github.com/kosarica/feed-service/internal/mapping"

// StageID identifies one card of the mapping wizard
type StageID string

const (
	StageStart      StageID = "start"
	StageCategories StageID = "categories"
	StageProducts   StageID = "products"
	StageParams     StageID = "params"
)

// TagDescriptor is a selectable endpoint: an internal field on the left, a
// feed tag or tag-attribute pair on the right
type TagDescriptor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ConnectionCard is one step of the wizard. Its right-hand candidates are
// derived from the parent card's connection for the field named like the card.
type ConnectionCard struct {
	ID            StageID         `json:"id"`
	Ref           StageID         `json:"ref,omitempty"`
	LeftElements  []TagDescriptor `json:"leftElements"`
	RightElements []TagDescriptor `json:"rightElements"`
}

type stageDef struct {
	id   StageID
	ref  StageID
	left []TagDescriptor
}

var stages = []stageDef{
	{
		id: StageStart,
		left: []TagDescriptor{
			{ID: string(StageCategories), Name: "Categories"},
			{ID: string(StageProducts), Name: "Products"},
		},
	},
	{
		id:  StageCategories,
		ref: StageStart,
		left: []TagDescriptor{
			{ID: mapping.FieldCategoryID, Name: "Category ID"},
			{ID: mapping.FieldCategoryName, Name: "Category name"},
		},
	},
	{
		id:  StageProducts,
		ref: StageStart,
		left: []TagDescriptor{
			{ID: mapping.FieldProductID, Name: "Product ID"},
			{ID: mapping.FieldName, Name: "Name"},
			{ID: mapping.FieldPrice, Name: "Price"},
			{ID: mapping.FieldCategory, Name: "Category ID"},
			{ID: mapping.FieldPicture, Name: "Picture"},
			{ID: mapping.FieldParams, Name: "Params"},
		},
	},
	{
		id:  StageParams,
		ref: StageProducts,
		left: []TagDescriptor{
			{ID: mapping.FieldParamName, Name: "Param name"},
			{ID: mapping.FieldParamValue, Name: "Param value"},
		},
	},
}

// Stages returns the ordered wizard stage ids
func Stages() []StageID {
	out := make([]StageID, len(stages))
	for i, s := range stages {
		out[i] = s.id
	}
	return out
}

// Palette holds the connection colors. They carry no meaning downstream.
var Palette = []string{
	"#e6194b",
	"#3cb44b",
	"#ffe119",
	"#4363d8",
	"#f58231",
	"#911eb4",
	"#46f0f0",
}
