package dto

import "BrowserGame/internal/travel/domain"

type LaunchAttackReq struct {
	AttackerID int64        `json:"attacker_id" binding:"required"`
	DefenderID int64        `json:"defender_id" binding:"required"`
	Units      domain.Units `json:"units"`
}

type SendResourcesReq struct {
	SourceID      int64            `json:"source_id" binding:"required"`
	DestinationID int64            `json:"destination_id" binding:"required"`
	Cargo         domain.Resources `json:"cargo"`
}

type CreateOfferReq struct {
	OffererID int64            `json:"offerer_id" binding:"required"`
	Offered   domain.Resources `json:"offered"`
	Requested domain.Resources `json:"requested"`
}

type AcceptOfferReq struct {
	AcceptorID int64 `json:"acceptor_id" binding:"required"`
}

type ListOffersQuery struct {
	Status    string `form:"status"`
	OffererID int64  `form:"offerer_id"`
	Limit     int    `form:"limit"`
}
