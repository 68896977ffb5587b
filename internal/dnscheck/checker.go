package dnscheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// ErrUnreachable DNS 服务暂时不可用，稍后重试，不改变域名状态
var ErrUnreachable = errors.New("dns provider unreachable")

// Result 一次检查的结论；Configured 为 false 时 Reason 给出用户可读的原因
type Result struct {
	Configured bool
	Reason     string
}

// Resolver *net.Resolver 满足该接口
type Resolver interface {
	LookupCNAME(ctx context.Context, host string) (string, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Checker 判断域名是否已经指向本服务：CNAME 等于目标，或 A/AAAA 记录命中任一配置地址
type Checker struct {
	resolver    Resolver
	cnameTarget string
	addrs       map[string]struct{}
	timeout     time.Duration
}

func NewChecker(resolver Resolver, cnameTarget string, addrs []string, timeout time.Duration) *Checker {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	set := make(map[string]struct{}, len(addrs))
	for _, a := range addrs {
		if ip := net.ParseIP(strings.TrimSpace(a)); ip != nil {
			set[ip.String()] = struct{}{}
		}
	}
	return &Checker{
		resolver:    resolver,
		cnameTarget: canonical(cnameTarget),
		addrs:       set,
		timeout:     timeout,
	}
}

// Check 返回 ErrUnreachable 表示应当稍后重试
func (c *Checker) Check(ctx context.Context, hostname string) (Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.cnameTarget != "" {
		cname, err := c.resolver.LookupCNAME(ctx, hostname)
		switch {
		case err == nil:
			if canonical(cname) == c.cnameTarget {
				return Result{Configured: true}, nil
			}
		case isTransient(err):
			return Result{}, fmt.Errorf("%w: lookup CNAME %s: %v", ErrUnreachable, hostname, err)
		}
	}

	if len(c.addrs) > 0 {
		hosts, err := c.resolver.LookupHost(ctx, hostname)
		if err != nil {
			if isTransient(err) {
				return Result{}, fmt.Errorf("%w: lookup %s: %v", ErrUnreachable, hostname, err)
			}
			return Result{Reason: fmt.Sprintf("no address records found for %s", hostname)}, nil
		}
		for _, h := range hosts {
			if ip := net.ParseIP(h); ip != nil {
				if _, ok := c.addrs[ip.String()]; ok {
					return Result{Configured: true}, nil
				}
			}
		}
		return Result{Reason: fmt.Sprintf("%s resolves to %s, expected one of the service addresses", hostname, strings.Join(hosts, ", "))}, nil
	}

	if c.cnameTarget == "" {
		return Result{Reason: "no verification target configured"}, nil
	}
	return Result{Reason: fmt.Sprintf("CNAME for %s does not point to %s", hostname, c.cnameTarget)}, nil
}

func canonical(name string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), ".")
}

// isTransient NXDOMAIN 视为未配置，超时和临时错误视为不可达
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsNotFound {
			return false
		}
		return dnsErr.IsTimeout || dnsErr.IsTemporary
	}
	return false
}
