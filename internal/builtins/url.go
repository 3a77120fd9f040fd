package builtins

import (
	"net/url"
	"strings"

	"dsq/internal/value"
)

func registerURLFns() {
	registerFn("url_parse", 1, func(args []value.Value) (value.Value, error) {
		u, err := url.Parse(args[0].AsString())
		if err != nil {
			return value.Null, err
		}
		obj := value.NewObject()
		obj.Set("scheme", value.String(u.Scheme))
		obj.Set("host", value.String(u.Hostname()))
		obj.Set("port", value.String(u.Port()))
		obj.Set("path", value.String(u.Path))
		obj.Set("query", value.String(u.RawQuery))
		obj.Set("fragment", value.String(u.Fragment))
		return value.Object(obj), nil
	})
	registerFn("url_extract_domain", 1, func(args []value.Value) (value.Value, error) {
		u, err := url.Parse(args[0].AsString())
		if err != nil {
			return value.Null, err
		}
		return value.String(u.Hostname()), nil
	})
	registerFn("url_extract_path", 1, func(args []value.Value) (value.Value, error) {
		u, err := url.Parse(args[0].AsString())
		if err != nil {
			return value.Null, err
		}
		return value.String(u.Path), nil
	})
	registerFn("url_extract_port", 1, func(args []value.Value) (value.Value, error) {
		u, err := url.Parse(args[0].AsString())
		if err != nil {
			return value.Null, err
		}
		return value.String(u.Port()), nil
	})
	registerFn("url_set_protocol", 2, func(args []value.Value) (value.Value, error) {
		u, err := url.Parse(args[0].AsString())
		if err != nil {
			return value.Null, err
		}
		u.Scheme = args[1].AsString()
		return value.String(u.String()), nil
	})
	registerFn("url_set_port", 2, func(args []value.Value) (value.Value, error) {
		u, err := url.Parse(args[0].AsString())
		if err != nil {
			return value.Null, err
		}
		host := u.Hostname()
		port := args[1].AsString()
		if port != "" {
			u.Host = host + ":" + port
		} else {
			u.Host = host
		}
		return value.String(u.String()), nil
	})
	registerFn("url_strip_port", 1, func(args []value.Value) (value.Value, error) {
		u, err := url.Parse(args[0].AsString())
		if err != nil {
			return value.Null, err
		}
		u.Host = u.Hostname()
		return value.String(u.String()), nil
	})
	registerFn("url_strip_port_if_default", 1, func(args []value.Value) (value.Value, error) {
		u, err := url.Parse(args[0].AsString())
		if err != nil {
			return value.Null, err
		}
		if (u.Scheme == "http" && u.Port() == "80") || (u.Scheme == "https" && u.Port() == "443") {
			u.Host = u.Hostname()
		}
		return value.String(u.String()), nil
	})
	registerFn("url_strip_fragment", 1, func(args []value.Value) (value.Value, error) {
		u, err := url.Parse(args[0].AsString())
		if err != nil {
			return value.Null, err
		}
		u.Fragment = ""
		return value.String(u.String()), nil
	})
	registerFn("url_set_domain_without_www", 1, func(args []value.Value) (value.Value, error) {
		u, err := url.Parse(args[0].AsString())
		if err != nil {
			return value.Null, err
		}
		host := strings.TrimPrefix(u.Hostname(), "www.")
		if port := u.Port(); port != "" {
			u.Host = host + ":" + port
		} else {
			u.Host = host
		}
		return value.String(u.String()), nil
	})
	registerFn("url_set_query_string", 2, func(args []value.Value) (value.Value, error) {
		u, err := url.Parse(args[0].AsString())
		if err != nil {
			return value.Null, err
		}
		u.RawQuery = strings.TrimPrefix(args[1].AsString(), "?")
		return value.String(u.String()), nil
	})
}
