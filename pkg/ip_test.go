package pkg

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPIsLocal(t *testing.T) {
	cases := []struct {
		addr            string
		expectedIsLocal bool
	}{
		{addr: "83.12.53.65:2145", expectedIsLocal: false},
		{addr: "127.23.0.1:35325", expectedIsLocal: false},
		{addr: "127.0.0.1:35325", expectedIsLocal: true},
		{addr: "[::1]:8080", expectedIsLocal: true},
		{addr: "172.20.0.1:60102", expectedIsLocal: true},
		{addr: "172.19.0.1:42452", expectedIsLocal: true},
		{addr: "172.19.0.2:42452", expectedIsLocal: false},
		{addr: "111.12.56.65:8080", expectedIsLocal: false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expectedIsLocal, IPIsLocal(tc.addr), tc.addr)
	}
}

func TestReadUserIP(t *testing.T) {
	for name, tc := range map[string]struct {
		remoteAddr string
		headers    map[string]string
		want       string
		wantErr    bool
	}{
		"remote_addr_with_port": {
			remoteAddr: "83.12.53.65:2145",
			want:       "83.12.53.65",
		},
		"ipv6_remote_addr": {
			remoteAddr: "[2001:db8::1]:443",
			want:       "2001:db8::1",
		},
		"real_ip_header": {
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-Ip": "111.12.56.65"},
			want:       "111.12.56.65",
		},
		"forwarded_for_first_hop": {
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "111.12.56.65, 10.0.0.2"},
			want:       "111.12.56.65",
		},
		"local": {
			remoteAddr: "127.0.0.1:50000",
			want:       "localhost",
		},
		"invalid": {
			remoteAddr: "not-an-ip",
			wantErr:    true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			ip, err := ReadUserIP(req)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, ip)
		})
	}
}
