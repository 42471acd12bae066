package member

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"clubmembers/cmd/client/cmd/types"
	"clubmembers/internal/app/client/members"
	"clubmembers/internal/domain/member"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type saveFlags struct {
	name    string
	email   string
	phone   string
	expires string
	amount  string
	avatar  string
}

var (
	addFlags    saveFlags
	updateFlags saveFlags
)

func (f *saveFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.name, "name", "n", "", "имя участника")
	fs.StringVarP(&f.email, "email", "e", "", "email")
	fs.StringVarP(&f.phone, "phone", "p", "", "телефон")
	fs.StringVar(&f.expires, "expires", "", "дата окончания членства, YYYY-MM-DD")
	fs.StringVar(&f.amount, "amount", "", "сумма оплаты, например 50 или \"1 200,50 ₽\"")
	fs.StringVar(&f.avatar, "avatar", "", "файл с фотографией")
}

// apply переносит в req только явно заданные флаги.
func (f *saveFlags) apply(fs *pflag.FlagSet, req *members.SaveRequest) error {
	if fs.Changed("name") {
		req.Name = f.name
	}
	if fs.Changed("email") {
		req.Email = f.email
	}
	if fs.Changed("phone") {
		req.Phone = f.phone
	}
	if fs.Changed("expires") {
		if f.expires == "" {
			req.Expiration = nil
		} else {
			d, err := member.ParseDate(f.expires)
			if err != nil {
				return fmt.Errorf("неверная дата %q, ожидается YYYY-MM-DD", f.expires)
			}
			req.Expiration = &d
		}
	}
	if fs.Changed("amount") {
		if f.amount == "" {
			req.PaymentAmount = nil
		} else {
			v, ok := members.ParseAmount(f.amount)
			if !ok {
				return fmt.Errorf("неверная сумма %q", f.amount)
			}
			req.PaymentAmount = &v
		}
	}
	if f.avatar != "" {
		data, err := os.ReadFile(f.avatar)
		if err != nil {
			return fmt.Errorf("ошибка чтения аватара: %w", err)
		}
		req.Avatar = data
		req.AvatarFilename = filepath.Base(f.avatar)
		req.AvatarContentType = http.DetectContentType(data)
	}
	return nil
}

var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Добавить участника",
	Example: `  clubmembers member add --name "Анна Петрова" --email anna@club.org --expires 2025-06-01 --amount 50
  clubmembers member add -n "Иван" --avatar ./ivan.jpg`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		var req members.SaveRequest
		if err := addFlags.apply(cmd.Flags(), &req); err != nil {
			return err
		}

		m, err := app.Members().Save(cmd.Context(), req)
		return reportSave(cmd, m, err)
	},
}

var UpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Изменить участника",
	Long: `Изменяет только переданные поля. Если вместе с суммой меняется дата
окончания, записывается новая оплата; если меняется только сумма,
исправляется последняя оплата.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		existing, err := app.Members().Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("ошибка получения участника %d: %w", id, err)
		}

		req := members.SaveRequest{
			ID:            id,
			Name:          existing.Name,
			Email:         derefString(existing.Email),
			Phone:         derefString(existing.Phone),
			Expiration:    existing.Expiration,
			PaymentAmount: existing.PaymentAmount,
		}
		if err := updateFlags.apply(cmd.Flags(), &req); err != nil {
			return err
		}

		m, err := app.Members().Save(cmd.Context(), req)
		return reportSave(cmd, m, err)
	},
}

func reportSave(cmd *cobra.Command, m member.Member, err error) error {
	if errors.Is(err, members.ErrPushFailed) {
		color.Yellow("⚠️  Участник %d сохранен локально, но сервер его не принял: %v", m.ID, err)
		fmt.Println("Повторите отправку позже: clubmembers sync")
		return err
	}
	if err != nil {
		return fmt.Errorf("ошибка сохранения: %w", err)
	}

	if types.OptionsFrom(cmd).JSON {
		return types.PrintJSON(toView(m, member.Today(time.Now())))
	}
	color.Green("✅ Участник сохранен (ID %d)", m.ID)
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func init() {
	addFlags.register(AddCmd.Flags())
	_ = AddCmd.MarkFlagRequired("name")
	updateFlags.register(UpdateCmd.Flags())
}
