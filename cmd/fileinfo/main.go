// Точка входа fileinfo — отчёт о файлах LMS, занимающих больше всего места.
// Команда serve (по умолчанию) запускает HTTP-сервер страницы отчётов,
// команда report строит один отчёт и печатает его в терминал.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bigkaa/fileinfo/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(1)
	}
}

// newRootCmd создаёт корневую команду. Без подкоманды выполняется serve.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "fileinfo",
		Short:   "Отчёт о самых больших файлах, пользователях и областях LMS",
		Version: config.Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newReportCmd())
	return root
}
