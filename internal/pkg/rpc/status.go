package rpc

import (
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/i18n"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error builds a gRPC status whose message is messageID localised to lang.
func Error(code codes.Code, lang, messageID string) error {
	return status.Error(code, i18n.T(lang, messageID))
}
