package dto

import "time"

type PositionRequest = CoordsRequest

type PositionResponse struct {
	Coords     CoordsResponse `json:"coords"`
	UTM        UTMResponse    `json:"utm"`
	ReceivedAt time.Time      `json:"received_at"`
}
