package payment

import "clubmembers/internal/domain/payment"

type listInput struct {
	MemberID int64 `path:"id" minimum:"1"`
}

type listOutput struct {
	Body []payment.Remote
}

type insertInput struct {
	Body payment.Remote
}

type upsertInput struct {
	ID   int64 `path:"id" minimum:"1"`
	Body payment.Remote
}

type paymentOutput struct {
	Body payment.Remote
}
