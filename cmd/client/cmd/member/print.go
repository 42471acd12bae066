package member

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"clubmembers/internal/domain/member"
	"clubmembers/internal/domain/payment"

	"github.com/fatih/color"
)

type memberView struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Email         *string  `json:"email,omitempty"`
	Phone         *string  `json:"phone,omitempty"`
	Expiration    *string  `json:"expiration,omitempty"`
	AvatarURL     *string  `json:"avatar_url,omitempty"`
	PaymentAmount *float64 `json:"payment_amount,omitempty"`
	UpdatedAt     string   `json:"updated_at"`
	Status        string   `json:"status"`
}

func toView(m member.Member, today time.Time) memberView {
	v := memberView{
		ID:            m.ID,
		Name:          m.Name,
		Email:         m.Email,
		Phone:         m.Phone,
		AvatarURL:     m.AvatarURL,
		PaymentAmount: m.PaymentAmount,
		UpdatedAt:     member.FormatTimestamp(m.UpdatedAt),
		Status:        status(m, today),
	}
	if m.Expiration != nil {
		d := member.FormatDate(*m.Expiration)
		v.Expiration = &d
	}
	return v
}

func toViews(list []member.Member) []memberView {
	today := member.Today(time.Now())
	out := make([]memberView, 0, len(list))
	for _, m := range list {
		out = append(out, toView(m, today))
	}
	return out
}

func status(m member.Member, today time.Time) string {
	switch {
	case m.IsDeleted:
		return "удален"
	case m.IsExpired(today):
		return "истек"
	default:
		return "активен"
	}
}

func colorStatus(s string) string {
	switch s {
	case "истек":
		return color.RedString(s)
	case "удален":
		return color.HiBlackString(s)
	default:
		return color.GreenString(s)
	}
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func amountString(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func printTable(list []member.Member) {
	if len(list) == 0 {
		fmt.Println("Участники не найдены")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tИмя\tEmail\tТелефон\tДо\tОплата\tСтатус\t\n")
	fmt.Fprintf(w, "---\t---\t---\t---\t---\t---\t---\t\n")

	for _, v := range toViews(list) {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			v.ID, v.Name, orDash(v.Email), orDash(v.Phone), orDash(v.Expiration),
			amountString(v.PaymentAmount), colorStatus(v.Status))
	}
	w.Flush()

	fmt.Printf("\nВсего: %d\n", len(list))
}

func printMember(m member.Member) {
	v := toView(m, member.Today(time.Now()))

	fmt.Printf("ID:          %d\n", v.ID)
	fmt.Printf("Имя:         %s\n", v.Name)
	fmt.Printf("Email:       %s\n", orDash(v.Email))
	fmt.Printf("Телефон:     %s\n", orDash(v.Phone))
	fmt.Printf("Действует до: %s\n", orDash(v.Expiration))
	fmt.Printf("Оплата:      %s\n", amountString(v.PaymentAmount))
	fmt.Printf("Аватар:      %s\n", orDash(v.AvatarURL))
	fmt.Printf("Изменен:     %s\n", m.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Статус:      %s\n", colorStatus(v.Status))
}

type paymentView struct {
	ID        int64   `json:"id"`
	CreatedAt string  `json:"created_at"`
	Amount    float64 `json:"amount"`
}

func toPaymentViews(list []payment.Payment) []paymentView {
	out := make([]paymentView, 0, len(list))
	for _, p := range list {
		out = append(out, paymentView{ID: p.ID, CreatedAt: member.FormatDate(p.CreatedAt), Amount: p.Amount})
	}
	return out
}

func printPayments(list []payment.Payment) {
	if len(list) == 0 {
		fmt.Println("Оплат нет")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tДата\tСумма\t\n")
	for _, p := range toPaymentViews(list) {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t\n", p.ID, p.CreatedAt, p.Amount)
	}
	w.Flush()
}
