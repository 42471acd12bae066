package member

import "clubmembers/internal/domain/member"

type listInput struct {
	OnlyLive bool `query:"only_live" doc:"Return only records that are not soft-deleted"`
}

type listOutput struct {
	Body []member.Remote
}

type upsertInput struct {
	ID   int64 `path:"id" minimum:"1"`
	Body member.Remote
}

type upsertOutput struct {
	Body member.Remote
}

type deleteInput struct {
	ID int64 `path:"id" minimum:"1"`
}
