package service

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyImported 该供应商商品已在店铺中
	ErrAlreadyImported = errors.New("商品已导入")
	// ErrSupplierUnavailable 供应商不可达、拒绝或鉴权失败
	ErrSupplierUnavailable = errors.New("供应商服务不可用")
	// ErrInvalidInput 参数校验失败
	ErrInvalidInput = errors.New("参数错误")
	// ErrProductNotFound 店铺商品不存在
	ErrProductNotFound = errors.New("商品不存在")
	// ErrOrderNotFound 供应商查不到该订单
	ErrOrderNotFound = errors.New("订单不存在")
	// ErrNoTracking 供应商没有物流信息
	ErrNoTracking = errors.New("暂无物流信息")
)

// supplierErr 保留原始供应商错误，同时可被 errors.Is(ErrSupplierUnavailable) 识别
func supplierErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrSupplierUnavailable, err)
}

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
