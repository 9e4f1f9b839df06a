package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hostgate/internal/models"
	"hostgate/internal/redirect"
)

func newLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "生成指向本服务跳转接口的地址",
	}
	cmd.PersistentFlags().String("base", "http://127.0.0.1:43234", "服务的外部访问地址")

	vCmd := &cobra.Command{
		Use:   "v",
		Short: "生成 /v 地址（302 跳转到拼接好的协议链接）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, _ := cmd.Flags().GetString("base")
			var p models.LinkParams
			for flag, dst := range map[string]**string{
				"c": &p.C, "security": &p.Security, "fp": &p.FP, "pbk": &p.PBK,
				"sni": &p.SNI, "sid": &p.SID, "name": &p.Name,
			} {
				if cmd.Flags().Changed(flag) {
					val, _ := cmd.Flags().GetString(flag)
					*dst = &val
				}
			}
			u, err := redirect.LinkURL(base, p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
	for _, f := range []string{"c", "security", "fp", "pbk", "sni", "sid", "name"} {
		vCmd.Flags().String(f, "", "参数 "+f+"（未指定时服务端使用 None）")
	}
	cmd.AddCommand(vCmd)

	for _, route := range []struct{ name, path, short string }{
		{"pay", "pay", "生成 /pay 地址（浏览器跳转到 --url）"},
		{"red", "red", "生成 /red 地址（浏览器跳转到 ss://<url>#<name>）"},
		{"red-vl", "red_vl", "生成 /red_vl 地址（url 中的 & 会被替换为 a_n_d）"},
	} {
		route := route
		c := &cobra.Command{
			Use:   route.name,
			Short: route.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				base, _ := cmd.Flags().GetString("base")
				target, _ := cmd.Flags().GetString("url")
				name, _ := cmd.Flags().GetString("name")
				u, err := redirect.PageLink(base, route.path, target, name)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), u)
				return nil
			},
		}
		c.Flags().String("url", "", "跳转目标")
		c.Flags().String("name", "", "显示名称（# 之后的部分）")
		_ = c.MarkFlagRequired("url")
		cmd.AddCommand(c)
	}
	return cmd
}
