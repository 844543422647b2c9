package model

import "natours/internal/query"

// Query allow-lists for the list endpoints, keyed by API field name.

var TourQuerySchema = query.Schema{
	PrimaryKey:    "id",
	VersionColumn: "version",
	DefaultSort:   "-ratingsAverage",
	Fields: map[string]query.Field{
		"name":            {Column: "name", Kind: query.KindString, Filterable: true, Sortable: true},
		"slug":            {Column: "slug", Kind: query.KindString, Filterable: true},
		"duration":        {Column: "duration", Kind: query.KindInt, Filterable: true, Sortable: true},
		"maxGroupSize":    {Column: "max_group_size", Kind: query.KindInt, Filterable: true, Sortable: true},
		"difficulty":      {Column: "difficulty", Kind: query.KindString, Filterable: true, Sortable: true},
		"ratingsAverage":  {Column: "ratings_average", Kind: query.KindNumber, Filterable: true, Sortable: true},
		"ratingsQuantity": {Column: "ratings_quantity", Kind: query.KindInt, Filterable: true, Sortable: true},
		"price":           {Column: "price", Kind: query.KindNumber, Filterable: true, Sortable: true},
		"priceDiscount":   {Column: "price_discount", Kind: query.KindNumber, Filterable: true, Sortable: true},
		"summary":         {Column: "summary", Kind: query.KindString},
		"description":     {Column: "description", Kind: query.KindString},
		"imageCover":      {Column: "image_cover", Kind: query.KindString},
		"images":          {Column: "images", Kind: query.KindString},
		"startDates":      {Column: "start_dates", Kind: query.KindString},
		"startLocation":   {Column: "start_location", Kind: query.KindString},
		"locations":       {Column: "locations", Kind: query.KindString},
		"createdAt":       {Column: "created_at", Kind: query.KindTime, Filterable: true, Sortable: true},
	},
}

var UserQuerySchema = query.Schema{
	PrimaryKey:    "id",
	VersionColumn: "version",
	DefaultSort:   "name",
	Fields: map[string]query.Field{
		"name":      {Column: "name", Kind: query.KindString, Filterable: true, Sortable: true},
		"email":     {Column: "email", Kind: query.KindString, Filterable: true, Sortable: true},
		"role":      {Column: "role", Kind: query.KindString, Filterable: true, Sortable: true},
		"photo":     {Column: "photo", Kind: query.KindString},
		"createdAt": {Column: "created_at", Kind: query.KindTime, Filterable: true, Sortable: true},
	},
}

var ReviewQuerySchema = query.Schema{
	PrimaryKey:    "id",
	VersionColumn: "version",
	DefaultSort:   "-createdAt",
	Fields: map[string]query.Field{
		"review":    {Column: "review", Kind: query.KindString},
		"rating":    {Column: "rating", Kind: query.KindNumber, Filterable: true, Sortable: true},
		"tour":      {Column: "tour_id", Kind: query.KindUUID, Filterable: true},
		"user":      {Column: "user_id", Kind: query.KindUUID, Filterable: true},
		"createdAt": {Column: "created_at", Kind: query.KindTime, Filterable: true, Sortable: true},
	},
}

var BookingQuerySchema = query.Schema{
	PrimaryKey:    "id",
	VersionColumn: "version",
	DefaultSort:   "-createdAt",
	Fields: map[string]query.Field{
		"tour":      {Column: "tour_id", Kind: query.KindUUID, Filterable: true},
		"user":      {Column: "user_id", Kind: query.KindUUID, Filterable: true},
		"price":     {Column: "price", Kind: query.KindNumber, Filterable: true, Sortable: true},
		"paid":      {Column: "paid", Kind: query.KindBool, Filterable: true},
		"createdAt": {Column: "created_at", Kind: query.KindTime, Filterable: true, Sortable: true},
	},
}
