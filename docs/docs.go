// Package docs 注册 /swagger 使用的 OpenAPI 文档
// 文档按 swag 的注册格式手工维护，接口变更时同步修改 docTemplate
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/maintenance/fix-images": {
            "post": {
                "tags": ["Maintenance"],
                "summary": "修复商品图片字段",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.FixImagesResp"}}
                }
            }
        },
        "/api/orders": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Orders"],
                "summary": "转单到 CJDropshipping",
                "parameters": [
                    {"description": "订单", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RelayOrderReq"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RelayOrderResp"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResp"}},
                    "502": {"description": "供应商下单失败", "schema": {"$ref": "#/definitions/dto.RelayOrderResp"}}
                }
            }
        },
        "/api/orders/relays": {
            "get": {
                "tags": ["Orders"],
                "summary": "转单记录",
                "parameters": [
                    {"type": "integer", "description": "条数，默认 50，最多 200", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/orders/status": {
            "get": {
                "tags": ["Orders"],
                "summary": "查询供应商订单状态",
                "parameters": [
                    {"type": "string", "description": "订单号（本地或供应商）", "name": "orderNumber", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResp"}}
                }
            }
        },
        "/api/products": {
            "get": {
                "tags": ["Products"],
                "summary": "供应商商品浏览 / 导入",
                "parameters": [
                    {"type": "string", "description": "list | detail | categories | import | preview", "name": "action", "in": "query", "required": true},
                    {"type": "integer", "description": "页码", "name": "page", "in": "query"},
                    {"type": "integer", "description": "每页数量", "name": "pageSize", "in": "query"},
                    {"type": "string", "description": "供应商类目 ID", "name": "categoryId", "in": "query"},
                    {"type": "string", "description": "关键词", "name": "search", "in": "query"},
                    {"type": "string", "description": "供应商商品 ID（detail）", "name": "pid", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "已导入", "schema": {"$ref": "#/definitions/dto.ErrorResp"}},
                    "502": {"description": "供应商不可用", "schema": {"$ref": "#/definitions/dto.ErrorResp"}}
                }
            }
        },
        "/api/shop-products": {
            "get": {
                "tags": ["ShopProducts"],
                "summary": "店铺商品 CRUD",
                "parameters": [
                    {"type": "string", "description": "list | get | add | update | delete", "name": "action", "in": "query", "required": true},
                    {"type": "integer", "description": "商品 ID", "name": "id", "in": "query"},
                    {"type": "string", "description": "类目，alle 表示全部", "name": "category", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ShopProductListResp"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResp"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResp"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.ErrorResp"}}
                }
            }
        },
        "/api/sync": {
            "post": {
                "consumes": ["application/json"],
                "tags": ["Sync"],
                "summary": "手动触发库存对账",
                "parameters": [
                    {"description": "待对账商品", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/dto.SyncStockReq"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SyncStockResp"}},
                    "409": {"description": "对账进行中", "schema": {"$ref": "#/definitions/dto.ErrorResp"}},
                    "429": {"description": "限流中", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/tracking": {
            "get": {
                "tags": ["Orders"],
                "summary": "查询物流轨迹",
                "parameters": [
                    {"type": "string", "description": "订单号", "name": "orderNumber", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "暂无物流", "schema": {"$ref": "#/definitions/dto.ErrorResp"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResp": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "dto.FixImagesResp": {
            "type": "object",
            "properties": {
                "errors": {"type": "array", "items": {"$ref": "#/definitions/service.ImageRepairError"}},
                "message": {"type": "string"},
                "statistics": {"$ref": "#/definitions/service.ImageRepairStats"},
                "success": {"type": "boolean"}
            }
        },
        "dto.CustomerReq": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "city": {"type": "string"},
                "country": {"type": "string"},
                "email": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "phone": {"type": "string"},
                "zip": {"type": "string"}
            }
        },
        "dto.OrderItemReq": {
            "type": "object",
            "required": ["quantity"],
            "properties": {
                "product_id": {"type": "integer"},
                "quantity": {"type": "integer"},
                "vid": {"type": "string"}
            }
        },
        "dto.RelayOrderReq": {
            "type": "object",
            "required": ["items"],
            "properties": {
                "customer": {"$ref": "#/definitions/dto.CustomerReq"},
                "items": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/dto.OrderItemReq"}},
                "notes": {"type": "string"},
                "order_number": {"type": "string"},
                "shipping_method": {"type": "string"}
            }
        },
        "dto.RelayOrderResp": {
            "type": "object",
            "properties": {
                "cj_order_number": {"type": "string"},
                "error": {"type": "string"},
                "excluded_product_ids": {"type": "array", "items": {"type": "integer"}},
                "message": {"type": "string"},
                "order_number": {"type": "string"},
                "status": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "dto.ShopProductListResp": {
            "type": "object",
            "properties": {
                "products": {"type": "array", "items": {"$ref": "#/definitions/model.CatalogProduct"}},
                "success": {"type": "boolean"}
            }
        },
        "dto.SyncProductReq": {
            "type": "object",
            "properties": {
                "cj_stock": {"type": "integer"},
                "cj_vid": {"type": "string"},
                "id": {"type": "integer"},
                "name": {"type": "string"}
            }
        },
        "dto.SyncStockReq": {
            "type": "object",
            "properties": {
                "products": {"type": "array", "items": {"$ref": "#/definitions/dto.SyncProductReq"}}
            }
        },
        "dto.SyncStockResp": {
            "type": "object",
            "properties": {
                "applied_count": {"type": "integer"},
                "cancelled": {"type": "boolean"},
                "error_count": {"type": "integer"},
                "message": {"type": "string"},
                "success": {"type": "boolean"},
                "timestamp": {"type": "string"},
                "total_products": {"type": "integer"},
                "updated_count": {"type": "integer"},
                "updates": {"type": "array", "items": {"$ref": "#/definitions/service.StockDelta"}}
            }
        },
        "model.CatalogProduct": {
            "type": "object",
            "properties": {
                "badge": {"type": "string"},
                "category": {"type": "string"},
                "cj_cost_price": {"type": "string"},
                "cj_pid": {"type": "string"},
                "cj_stock": {"type": "integer"},
                "cj_vid": {"type": "string"},
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "integer"},
                "image": {"type": "string"},
                "name": {"type": "string"},
                "price": {"type": "string"},
                "rating": {"type": "integer"},
                "updated_at": {"type": "string"}
            }
        },
        "service.ImageRepairError": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "id": {"type": "integer"}
            }
        },
        "service.ImageRepairStats": {
            "type": "object",
            "properties": {
                "errors": {"type": "integer"},
                "fixed": {"type": "integer"},
                "skipped": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "service.StockDelta": {
            "type": "object",
            "properties": {
                "new_stock": {"type": "integer"},
                "old_stock": {"type": "integer"},
                "product_id": {"type": "integer"},
                "product_name": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "PrimePet Supply API",
	Description:      "CJDropshipping 供应商对接：商品导入、转单、库存对账",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
