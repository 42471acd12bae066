package cmd

import (
	"clubmembers/cmd/client/cmd/auth"
	"clubmembers/cmd/client/cmd/member"
	"clubmembers/cmd/client/cmd/sync"
)

func init() {
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.RegisterCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)
	auth.AuthCmd.AddCommand(auth.StatusCmd)

	rootCmd.AddCommand(member.MemberCmd)
	member.MemberCmd.AddCommand(member.AddCmd)
	member.MemberCmd.AddCommand(member.UpdateCmd)
	member.MemberCmd.AddCommand(member.GetCmd)
	member.MemberCmd.AddCommand(member.ListCmd)
	member.MemberCmd.AddCommand(member.ExpiredCmd)
	member.MemberCmd.AddCommand(member.SearchCmd)
	member.MemberCmd.AddCommand(member.DeleteCmd)
	member.MemberCmd.AddCommand(member.RenewCmd)
	member.MemberCmd.AddCommand(member.PaymentsCmd)
	member.MemberCmd.AddCommand(member.AvatarCmd)

	rootCmd.AddCommand(sync.SyncCmd)
}
