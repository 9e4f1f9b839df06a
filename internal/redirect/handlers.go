package redirect

import (
	"embed"
	"net/http"
)

//go:embed pages/*.html
var pagesFS embed.FS

var (
	payPage   = mustPage("pages/pay.html")
	redPage   = mustPage("pages/red.html")
	redVLPage = mustPage("pages/red_vl.html")
)

func mustPage(name string) []byte {
	b, err := pagesFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return b
}

// Link GET /v：302 跳转到 BuildLink 生成的链接。
// Location 原样写入，不按请求地址解析相对路径。
func Link(w http.ResponseWriter, r *http.Request) {
	link := BuildLink(ParamsFromQuery(r.URL.Query()))
	w.Header().Set("Location", link)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusFound)
	_, _ = w.Write([]byte("<!doctype html>\n<title>Redirecting...</title>\n<h1>Redirecting...</h1>\n"))
}

// Pay GET /pay：由浏览器读取 url 参数后跳转
func Pay(w http.ResponseWriter, r *http.Request) {
	writePage(w, payPage)
}

// Red GET /red：浏览器跳转到 "ss://" + url + "#" + name
func Red(w http.ResponseWriter, r *http.Request) {
	writePage(w, redPage)
}

// RedVL GET /red_vl：浏览器把 url 中的 a_n_d 还原为 '&' 后跳转到 url + "#" + name
func RedVL(w http.ResponseWriter, r *http.Request) {
	writePage(w, redVLPage)
}

func writePage(w http.ResponseWriter, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}
