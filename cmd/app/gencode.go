package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qrlink-go/pkg/shortcode"
)

// gencodeCmd 只生成候选短码，不检查数据库
func gencodeCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "gencode",
		Short: "Print random short codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("-n must be positive")
			}
			for i := 0; i < count; i++ {
				code, err := shortcode.Generate()
				if err != nil {
					return err
				}
				cmd.Println(code)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of codes")
	return cmd
}
