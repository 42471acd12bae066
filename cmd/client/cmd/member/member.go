package member

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// MemberCmd - родительская команда для всех операций с участниками
var MemberCmd = &cobra.Command{
	Use:     "member",
	Aliases: []string{"m"},
	Short:   "Управление участниками",
	Long: `Добавление, изменение, поиск, продление и удаление участников клуба.

Изменения сохраняются локально и сразу отправляются на сервер.`,
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("неверный идентификатор участника: %q", arg)
	}
	return id, nil
}
