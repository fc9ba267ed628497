package admin

import handlershared "github.com/lunatickworker/hybridcasino-sub000/internal/http/handlers/shared"

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}
