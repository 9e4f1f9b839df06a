// Package redirect 生成代理配置链接以及三个浏览器端跳转页面
package redirect

import (
	"net/url"
	"strings"

	"hostgate/internal/models"
)

const (
	// Placeholder 缺失参数在链接中的占位文本
	Placeholder = "None"
	// DelimiterToken 代替 '&' 在链接中传输的标记
	DelimiterToken = "a_n_d"
)

func orPlaceholder(s *string) string {
	if s == nil {
		return Placeholder
	}
	return *s
}

// BuildLink 按固定顺序拼接：{c}&security=..&fp=..&pbk=..&sni=..&sid=..&spx=%2F#{name}。
// 参数值不做校验和转义，原样写入。
func BuildLink(p models.LinkParams) string {
	var b strings.Builder
	b.WriteString(orPlaceholder(p.C))
	b.WriteString("&security=")
	b.WriteString(orPlaceholder(p.Security))
	b.WriteString("&fp=")
	b.WriteString(orPlaceholder(p.FP))
	b.WriteString("&pbk=")
	b.WriteString(orPlaceholder(p.PBK))
	b.WriteString("&sni=")
	b.WriteString(orPlaceholder(p.SNI))
	b.WriteString("&sid=")
	b.WriteString(orPlaceholder(p.SID))
	b.WriteString("&spx=%2F#")
	b.WriteString(orPlaceholder(p.Name))
	return b.String()
}

// ParamsFromQuery 从查询参数取出 LinkParams，只有不存在的参数才为 nil
func ParamsFromQuery(q url.Values) models.LinkParams {
	get := func(k string) *string {
		if !q.Has(k) {
			return nil
		}
		v := q.Get(k)
		return &v
	}
	return models.LinkParams{
		C:        get("c"),
		Security: get("security"),
		FP:       get("fp"),
		PBK:      get("pbk"),
		SNI:      get("sni"),
		SID:      get("sid"),
		Name:     get("name"),
	}
}

// HideDelimiters 把 '&' 替换为 DelimiterToken
func HideDelimiters(s string) string {
	return strings.ReplaceAll(s, "&", DelimiterToken)
}

// RestoreDelimiters 把所有 DelimiterToken 还原为 '&'，与 red_vl 页面中的脚本一致
func RestoreDelimiters(s string) string {
	return strings.ReplaceAll(s, DelimiterToken, "&")
}

// LinkURL 生成指向 /v 的完整地址，只带上非 nil 的参数
func LinkURL(base string, p models.LinkParams) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(base, "/") + "/v")
	if err != nil {
		return "", err
	}
	q := url.Values{}
	for _, f := range []struct {
		key string
		val *string
	}{
		{"c", p.C}, {"security", p.Security}, {"fp", p.FP}, {"pbk", p.PBK},
		{"sni", p.SNI}, {"sid", p.SID}, {"name", p.Name},
	} {
		if f.val != nil {
			q.Set(f.key, *f.val)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// PageLink 生成指向跳转页面（/pay、/red、/red_vl）的地址；red_vl 会先隐藏 url 中的 '&'
func PageLink(base, route, target, name string) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(route, "/"))
	if err != nil {
		return "", err
	}
	if strings.TrimPrefix(route, "/") == "red_vl" {
		target = HideDelimiters(target)
	}
	q := url.Values{}
	q.Set("url", target)
	if name != "" {
		q.Set("name", name)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
