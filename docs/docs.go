// Package docs: описание API в формате Swagger 2.0 по аннотациям обработчиков
// из internal/handlers. Файл ведётся вручную: при изменении аннотаций его
// нужно обновить вместе с ними.
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
        "/healthz": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "ops"
                ],
                "summary": "Проверка готовности",
                "parameters": [],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.SuccessResponse"
                        }
                    },
                    "503": {
                        "description": "Хранилище недоступно (STORAGE_UNAVAILABLE)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/outlets/{outletId}/queue": {
            "post": {
                "description": "Создаёт запись в живой очереди точки и возвращает код для отслеживания",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "customer"
                ],
                "summary": "Встать в очередь",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID точки",
                        "name": "outletId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Данные гостя",
                        "name": "input",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.JoinRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/models.QueueEntry"
                        }
                    },
                    "400": {
                        "description": "Ошибка валидации (VALIDATION_ERROR)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Точка не найдена (NOT_FOUND)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Хранилище недоступно (STORAGE_UNAVAILABLE)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            },
            "get": {
                "description": "Записи точки в порядке очереди. По умолчанию: незакрытые (waiting, called, seated)",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "staff"
                ],
                "summary": "Очередь точки",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID точки",
                        "name": "outletId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Статусы через запятую",
                        "name": "status",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.QueueEntry"
                            }
                        }
                    },
                    "400": {
                        "description": "Ошибка валидации (VALIDATION_ERROR)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/outlets/{outletId}/queue/estimate": {
            "get": {
                "description": "Сколько минут будет ждать группа указанного размера, если встанет в очередь сейчас",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "customer"
                ],
                "summary": "Оценка ожидания",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID точки",
                        "name": "outletId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Размер группы",
                        "name": "party_size",
                        "in": "query",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.EstimateResponse"
                        }
                    },
                    "400": {
                        "description": "Ошибка валидации (VALIDATION_ERROR)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/queue/codes/{code}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "customer"
                ],
                "summary": "Запись по коду",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Код записи",
                        "name": "code",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.QueueEntry"
                        }
                    },
                    "404": {
                        "description": "Запись не найдена (NOT_FOUND)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/queue/codes/{code}/cancel": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "customer"
                ],
                "summary": "Отменить свою запись",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Код записи",
                        "name": "code",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Причина",
                        "name": "input",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/handlers.CancelRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.QueueEntry"
                        }
                    },
                    "404": {
                        "description": "Запись не найдена (NOT_FOUND)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Запись уже закрыта (INVALID_TRANSITION)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/queue/codes/{code}/ws": {
            "get": {
                "description": "WebSocket: события статуса, позиции и ожидания по коду записи",
                "tags": [
                    "customer"
                ],
                "summary": "Подписка на изменения записи",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Код записи",
                        "name": "code",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "101": {
                        "description": "Switching Protocols"
                    }
                }
            }
        },
        "/api/outlets/{outletId}/queue/search": {
            "get": {
                "description": "Поиск по имени, телефону и коду с постраничной выдачей",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "staff"
                ],
                "summary": "Поиск в очереди",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID точки",
                        "name": "outletId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Строка поиска",
                        "name": "q",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "string",
                        "description": "Статусы через запятую",
                        "name": "status",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "integer",
                        "description": "Номер страницы",
                        "name": "page",
                        "in": "query",
                        "required": false
                    },
                    {
                        "type": "integer",
                        "description": "Размер страницы (до 100)",
                        "name": "page_size",
                        "in": "query",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/queue.Page"
                        }
                    },
                    "400": {
                        "description": "Ошибка валидации (VALIDATION_ERROR)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/outlets/{outletId}/queue/summary": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "staff"
                ],
                "summary": "Сводка по очереди",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID точки",
                        "name": "outletId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/queue.Summary"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/outlets/{outletId}/queue/held": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "staff"
                ],
                "summary": "Отложенные записи",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID точки",
                        "name": "outletId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.QueueEntry"
                            }
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/outlets/{outletId}/ws": {
            "get": {
                "description": "WebSocket: все события очереди точки",
                "tags": [
                    "staff"
                ],
                "summary": "Подписка на очередь точки",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID точки",
                        "name": "outletId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "101": {
                        "description": "Switching Protocols"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/queue/entries/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "staff"
                ],
                "summary": "Запись очереди",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID записи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.QueueEntry"
                        }
                    },
                    "404": {
                        "description": "Запись не найдена (NOT_FOUND)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "patch": {
                "description": "Меняет только переданные поля. Закрытые записи не меняются",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "staff"
                ],
                "summary": "Изменить данные гостя",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID записи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Поля для изменения",
                        "name": "input",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/queue.UpdateEntryRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.QueueEntry"
                        }
                    },
                    "400": {
                        "description": "Ошибка валидации (VALIDATION_ERROR)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Запись не найдена (NOT_FOUND)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/queue/entries/{id}/history": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "staff"
                ],
                "summary": "История статусов записи",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID записи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.QueueStatusChange"
                            }
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/queue/entries/{id}/status": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "staff"
                ],
                "summary": "Сменить статус",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID записи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Новый статус",
                        "name": "input",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.StatusRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.QueueEntry"
                        }
                    },
                    "400": {
                        "description": "Неизвестный статус (VALIDATION_ERROR)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Недопустимый переход (INVALID_TRANSITION)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/queue/entries/{id}/cancel": {
            "post": {
                "description": "Отмена сотрудником. Для уже закрытой записи возвращает cancelled=false",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "staff"
                ],
                "summary": "Отменить запись",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID записи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Причина",
                        "name": "input",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/handlers.CancelRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.CancelResponse"
                        }
                    },
                    "404": {
                        "description": "Запись не найдена (NOT_FOUND)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Гость уже за столом (INVALID_TRANSITION)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/queue/entries/{id}/assign": {
            "post": {
                "description": "Привязывает запись к столу без смены статуса. Привязка приходит событием table_assigned",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "staff"
                ],
                "summary": "Назначить стол",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID записи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Стол",
                        "name": "input",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.AssignRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/models.QueueEntry"
                        }
                    },
                    "409": {
                        "description": "Стол занят (TABLE_CONFLICT, ENTRY_ALREADY_ASSIGNED)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Стол мал (CAPACITY_MISMATCH)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/queue/entries/{id}/seat": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "staff"
                ],
                "summary": "Гость сел за стол",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID записи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.QueueEntry"
                        }
                    },
                    "409": {
                        "description": "Недопустимый переход (INVALID_TRANSITION)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/queue/entries/{id}/complete": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "staff"
                ],
                "summary": "Гость ушёл, стол свободен",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID записи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.QueueEntry"
                        }
                    },
                    "409": {
                        "description": "Недопустимый переход (INVALID_TRANSITION)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/queue/entries/{id}/no-show": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "staff"
                ],
                "summary": "Гость не пришёл",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID записи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.QueueEntry"
                        }
                    },
                    "409": {
                        "description": "Недопустимый переход (INVALID_TRANSITION)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/queue/entries/{id}/hold": {
            "post": {
                "description": "Гость отошёл: запись не вызывается и не считается в ожидании других",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "staff"
                ],
                "summary": "Отложить запись",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID записи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.QueueEntry"
                        }
                    },
                    "409": {
                        "description": "Запись не в ожидании (INVALID_TRANSITION)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/queue/entries/{id}/release": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "staff"
                ],
                "summary": "Вернуть отложенную запись",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID записи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.QueueEntry"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/queue/entries/{id}/prioritize": {
            "post": {
                "description": "Снимает отложенность и ставит запись первой в порядке вызова",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "staff"
                ],
                "summary": "Поднять в приоритет",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID записи",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.QueueEntry"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/outlets/{outletId}/tables/{tableId}/recommendation": {
            "get": {
                "description": "Рекомендованная запись и альтернативы для освободившегося стола",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "tables"
                ],
                "summary": "Кого посадить за стол",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID точки",
                        "name": "outletId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "ID стола",
                        "name": "tableId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/queue.Recommendation"
                        }
                    },
                    "404": {
                        "description": "Стол не найден (NOT_FOUND)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/outlets/{outletId}/tables/{tableId}/call-next": {
            "post": {
                "description": "Назначает стол лучшей подходящей записи и переводит её в called",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "tables"
                ],
                "summary": "Вызвать следующего гостя",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID точки",
                        "name": "outletId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "ID стола",
                        "name": "tableId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/queue.CallResult"
                        }
                    },
                    "404": {
                        "description": "Нет подходящих гостей (NO_ELIGIBLE_ENTRY)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Стол занят (TABLE_CONFLICT)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Стол мал (CAPACITY_MISMATCH)",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        }
    },
    "definitions": {
        "handlers.AssignRequest": {
            "type": "object",
            "properties": {
                "table_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "confirmed_overflow": {
                    "type": "boolean"
                },
                "combine_with_existing": {
                    "type": "boolean"
                }
            }
        },
        "handlers.CancelRequest": {
            "type": "object",
            "properties": {
                "reason": {
                    "type": "string",
                    "example": "планы изменились"
                }
            }
        },
        "handlers.JoinRequest": {
            "type": "object",
            "properties": {
                "customer_name": {
                    "type": "string",
                    "example": "Анна"
                },
                "customer_phone": {
                    "type": "string",
                    "example": "+6281234567890"
                },
                "party_size": {
                    "type": "integer",
                    "example": 4
                },
                "special_requests": {
                    "type": "string",
                    "example": "детский стул"
                }
            }
        },
        "handlers.StatusRequest": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string",
                    "example": "seated"
                },
                "reason": {
                    "type": "string",
                    "example": "гость подошёл"
                }
            }
        },
        "models.AssignmentStatus": {
            "type": "string",
            "enum": [
                "assigned",
                "seated",
                "completed",
                "cancelled"
            ]
        },
        "models.QueueEntry": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "code": {
                    "type": "string"
                },
                "outlet_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "customer_name": {
                    "type": "string"
                },
                "customer_phone": {
                    "type": "string"
                },
                "party_size": {
                    "type": "integer"
                },
                "special_requests": {
                    "type": "string"
                },
                "status": {
                    "$ref": "#/definitions/models.QueueStatus"
                },
                "queue_position": {
                    "type": "integer"
                },
                "is_held": {
                    "type": "boolean"
                },
                "held_since": {
                    "type": "string",
                    "format": "date-time"
                },
                "prioritized_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "prioritized_by": {
                    "type": "string"
                },
                "queued_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "called_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "seated_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "completed_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "estimated_wait_minutes": {
                    "type": "integer"
                },
                "closed_by_system": {
                    "type": "boolean"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "models.QueueStatus": {
            "type": "string",
            "enum": [
                "waiting",
                "called",
                "seated",
                "completed",
                "no_show",
                "cancelled"
            ]
        },
        "models.QueueStatusChange": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "queue_entry_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "old_status": {
                    "$ref": "#/definitions/models.QueueStatus"
                },
                "new_status": {
                    "$ref": "#/definitions/models.QueueStatus"
                },
                "actor_id": {
                    "type": "string"
                },
                "reason": {
                    "type": "string"
                },
                "changed_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "models.QueueTableAssignment": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "queue_entry_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "table_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "table_number": {
                    "type": "string"
                },
                "table_capacity": {
                    "type": "integer"
                },
                "status": {
                    "$ref": "#/definitions/models.AssignmentStatus"
                },
                "assigned_by": {
                    "type": "string"
                },
                "combine_with_existing_table": {
                    "type": "boolean"
                },
                "staff_confirmed_overflow": {
                    "type": "boolean"
                },
                "assigned_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "seated_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "completed_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "models.Table": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "format": "uuid"
                },
                "outlet_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "table_number": {
                    "type": "string"
                },
                "capacity": {
                    "type": "integer"
                },
                "section": {
                    "type": "string"
                },
                "is_active": {
                    "type": "boolean"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "queue.CallResult": {
            "type": "object",
            "properties": {
                "entry": {
                    "$ref": "#/definitions/models.QueueEntry"
                },
                "assignment": {
                    "$ref": "#/definitions/models.QueueTableAssignment"
                },
                "fit": {
                    "$ref": "#/definitions/queue.Fit"
                }
            }
        },
        "queue.Candidate": {
            "type": "object",
            "properties": {
                "entry": {
                    "$ref": "#/definitions/models.QueueEntry"
                },
                "fit": {
                    "$ref": "#/definitions/queue.Fit"
                },
                "slack": {
                    "type": "integer"
                }
            }
        },
        "queue.Fit": {
            "type": "string",
            "enum": [
                "optimal",
                "too_large",
                "too_small"
            ]
        },
        "queue.Page": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.QueueEntry"
                    }
                },
                "total": {
                    "type": "integer"
                },
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                }
            }
        },
        "queue.Recommendation": {
            "type": "object",
            "properties": {
                "table": {
                    "$ref": "#/definitions/models.Table"
                },
                "recommended": {
                    "$ref": "#/definitions/queue.Candidate"
                },
                "combine_with_existing_table": {
                    "type": "boolean"
                },
                "requires_overflow_confirmation": {
                    "type": "boolean"
                },
                "alternatives": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/queue.Candidate"
                    }
                }
            }
        },
        "queue.Summary": {
            "type": "object",
            "properties": {
                "outlet_id": {
                    "type": "string",
                    "format": "uuid"
                },
                "total_waiting": {
                    "type": "integer"
                },
                "total_called": {
                    "type": "integer"
                },
                "total_seated": {
                    "type": "integer"
                },
                "total_held": {
                    "type": "integer"
                },
                "average_wait_minutes": {
                    "type": "integer"
                },
                "longest_wait_minutes": {
                    "type": "integer"
                },
                "generated_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "queue.UpdateEntryRequest": {
            "type": "object",
            "properties": {
                "customer_name": {
                    "type": "string"
                },
                "customer_phone": {
                    "type": "string"
                },
                "party_size": {
                    "type": "integer"
                },
                "special_requests": {
                    "type": "string"
                }
            }
        },
        "response.CancelResponse": {
            "type": "object",
            "properties": {
                "cancelled": {
                    "type": "boolean",
                    "example": true
                }
            }
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string",
                    "example": "VALIDATION_ERROR",
                    "description": "Код ошибки для программной обработки"
                },
                "message": {
                    "type": "string",
                    "example": "Ошибка валидации данных",
                    "description": "Человекочитаемое сообщение об ошибке"
                },
                "details": {
                    "type": "string",
                    "example": "party size must be between 1 and 20",
                    "description": "Дополнительные детали об ошибке (опционально)"
                }
            }
        },
        "response.EstimateResponse": {
            "type": "object",
            "properties": {
                "party_size": {
                    "type": "integer",
                    "example": 4
                },
                "estimated_wait_minutes": {
                    "type": "integer",
                    "example": 25
                }
            }
        },
        "response.SuccessResponse": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string",
                    "example": "Операция успешно выполнена"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo: метаданные API для gin-swagger.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Живая очередь ресторана",
	Description:      "Очередь гостей без брони и подбор столов",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
