package blingdomain

import "strconv"

// Situações de pedido de venda usadas pelo Bling
const (
	SituacaoEmAberto    = 6
	SituacaoAtendido    = 9
	SituacaoCancelado   = 12
	SituacaoEmAndamento = 15
)

type OrderListResponse struct {
	Data []Order `json:"data"`
}

type OrderResponse struct {
	Data Order `json:"data"`
}

type Order struct {
	ID         int64      `json:"id"`
	Numero     int64      `json:"numero"`
	NumeroLoja string     `json:"numeroLoja"`
	Data       string     `json:"data"`
	Total      *float64   `json:"total"`
	Situacao   Situacao   `json:"situacao"`
	Contato    Contato    `json:"contato"`
	Loja       Loja       `json:"loja"`
	Itens      []Item     `json:"itens"`
	Taxas      Taxas      `json:"taxas"`
	Transporte Transporte `json:"transporte"`
}

// IDString retorna o id do pedido como texto
func (o *Order) IDString() string {
	if o.ID == 0 {
		return ""
	}
	return strconv.FormatInt(o.ID, 10)
}

type Situacao struct {
	ID    int `json:"id"`
	Valor int `json:"valor"`
}

// Status traduz a situação do Bling para a classificação de status dos pedidos
func (s Situacao) Status() string {
	switch s.ID {
	case SituacaoAtendido:
		return "completed"
	case SituacaoCancelado:
		return "cancelled"
	case SituacaoEmAberto:
		return "open"
	case SituacaoEmAndamento:
		return "in progress"
	default:
		return "situacao " + strconv.Itoa(s.ID)
	}
}

type Contato struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

type Loja struct {
	ID int64 `json:"id"`
}

type Item struct {
	Codigo     string   `json:"codigo"`
	Descricao  string   `json:"descricao"`
	Quantidade *float64 `json:"quantidade"`
	Valor      *float64 `json:"valor"`
}

type Taxas struct {
	TaxaComissao *float64 `json:"taxaComissao"`
	CustoFrete   *float64 `json:"custoFrete"`
}

type Transporte struct {
	Frete         *float64 `json:"frete"`
	FretePorConta int      `json:"fretePorConta"`
}

type ErrorResponse struct {
	Error struct {
		Type        string `json:"type"`
		Message     string `json:"message"`
		Description string `json:"description"`
	} `json:"error"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
}
