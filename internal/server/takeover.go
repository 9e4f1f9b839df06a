package server

import (
	"net"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// ListenPort 从监听地址解析端口，如 "0.0.0.0:43234" -> "43234"
func ListenPort(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		if strings.HasPrefix(addr, ":") && addr[1:] != "" {
			return strings.TrimPrefix(addr, ":")
		}
		return ""
	}
	return port
}

// KillProcessOnPort 结束占用指定端口的进程（macOS/Linux 使用 lsof + kill），返回被结束的 pid
func KillProcessOnPort(port string) []int {
	if runtime.GOOS == "windows" || port == "" {
		return nil
	}
	out, err := exec.Command("lsof", "-i", ":"+port, "-t").Output()
	if err != nil || len(out) == 0 {
		return nil
	}
	self := os.Getpid()
	var killed []int
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		pid, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || pid == self {
			continue
		}
		proc, err := os.FindProcess(pid)
		if err != nil {
			continue
		}
		if proc.Kill() == nil {
			killed = append(killed, pid)
		}
	}
	return killed
}
