package dto

import "time"

type LoadResponse struct {
	LoadID           int64      `json:"load_id"`
	Customer         string     `json:"customer"`
	PickupLocation   string     `json:"pickup_location"`
	PickupDate       *time.Time `json:"pickup_date,omitempty"`
	PickupTime       string     `json:"pickup_time,omitempty"`
	DeliveryLocation string     `json:"delivery_location"`
	DeliveryDate     *time.Time `json:"delivery_date,omitempty"`
	DeliveryTime     string     `json:"delivery_time,omitempty"`
	GrossAmount      float64    `json:"gross_amount"`
	Status           string     `json:"status"`
	DriverID         *int64     `json:"driver_id,omitempty"`
}

type ListLoadsResponse struct {
	Loads []LoadResponse `json:"loads"`
}

type AssignRequest struct {
	LoadID   int64  `json:"load_id"`
	DriverID int64  `json:"driver_id"`
	Notes    string `json:"notes"`
	Actor    string `json:"actor"`
}

type ReleaseRequest struct {
	LoadID int64  `json:"load_id"`
	Actor  string `json:"actor"`
}

type OperationResponse struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}
