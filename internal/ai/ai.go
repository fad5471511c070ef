package ai

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// AnalysisService backs the admin analysis dashboard. It holds a Gemini
// client and a read-only database connection the model can query through a
// single SELECT-only tool.
type AnalysisService struct {
	Client *genai.Client
	DB     *sql.DB
}

// NewAnalysisService initializes the Gemini client against the read-only pool.
func NewAnalysisService(apiKey string, dbReadOnly *sql.DB) (*AnalysisService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &AnalysisService{Client: client, DB: dbReadOnly}, nil
}

// Answer runs one analysis question. The model may call run_readonly_sql any
// number of times; we loop until it produces text.
func (s *AnalysisService) Answer(ctx context.Context, question string) (string, error) {
	model := s.Client.GenerativeModel("gemini-1.5-flash")

	sqlTool := &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "run_readonly_sql",
				Description: "Executes a READ-ONLY SQL query (SELECT only) to answer questions.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"query": {
							Type:        genai.TypeString,
							Description: "The MySQL SELECT query to execute.",
						},
					},
					Required: []string{"query"},
				},
			},
		},
	}
	model.Tools = []*genai.Tool{sqlTool}

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(fmt.Sprintf(`
			You are the Maalem Market analysis assistant for the platform admin.
			Access: MySQL database (run_readonly_sql).
			Schema: %s
			Rules: SELECT only. Be concise. Amounts are in MAD.
		`, s.schemaDefinition()))},
	}

	cs := model.StartChat()
	res, err := cs.SendMessage(ctx, genai.Text(question))
	if err != nil {
		return "", fmt.Errorf("error sending message: %w", err)
	}

	for {
		if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
			return "No response.", nil
		}
		part := res.Candidates[0].Content.Parts[0]

		funcCall, ok := part.(genai.FunctionCall)
		if !ok {
			return fmt.Sprintf("%v", part), nil
		}
		if funcCall.Name != "run_readonly_sql" {
			return "", fmt.Errorf("unknown function: %s", funcCall.Name)
		}

		query, ok := funcCall.Args["query"].(string)
		if !ok {
			return "", fmt.Errorf("invalid query argument")
		}
		log.Printf("analysis assistant running SQL: %s", query)

		sqlResult, sqlErr := s.runReadOnlyQuery(query)
		if sqlErr != nil {
			sqlResult = fmt.Sprintf("SQL Error: %v", sqlErr)
		}

		res, err = cs.SendMessage(ctx, genai.FunctionResponse{
			Name:     "run_readonly_sql",
			Response: map[string]interface{}{"result": sqlResult},
		})
		if err != nil {
			return "", fmt.Errorf("tool response error: %w", err)
		}
	}
}

// runReadOnlyQuery executes a SELECT and marshals the rows as JSON for the
// model. Anything that smells like a write is refused before it reaches the
// database, on top of the read-only grants on the pool itself.
func (s *AnalysisService) runReadOnlyQuery(query string) (string, error) {
	normalized := strings.ToUpper(query)
	for _, verb := range []string{"UPDATE", "DELETE", "DROP", "INSERT", "ALTER", "TRUNCATE"} {
		if strings.Contains(normalized, verb) {
			return "", fmt.Errorf("security violation: modify operations are not allowed")
		}
	}

	rows, err := s.DB.Query(query)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	columns, _ := rows.Columns()
	count := len(columns)
	tableData := []map[string]interface{}{}
	for rows.Next() {
		values := make([]interface{}, count)
		valuePtrs := make([]interface{}, count)
		for i := range columns {
			valuePtrs[i] = &values[i]
		}
		rows.Scan(valuePtrs...)
		entry := make(map[string]interface{})
		for i, col := range columns {
			var v interface{}
			val := values[i]
			if b, ok := val.([]byte); ok {
				v = string(b)
			} else {
				v = val
			}
			entry[col] = v
		}
		tableData = append(tableData, entry)
	}
	jsonData, err := json.Marshal(tableData)
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (s *AnalysisService) schemaDefinition() string {
	return `
	- maalem_profiles (id_maalem, firstname, lastname, address, rating, is_managed_by_admin, phone_number)
	- client_profiles (client_id, firstname, lastname, date_joined, address, phone_number)
	- items (item_id, maalem_id, title, slug, description, category, photo_url, maalem_ask_price, min_sell_price, platform_fee_percentage, stock_quantity)
	- offers (offer_id, offer_quantity, maalem_net_offer, client_offer_total, platform_margin, status [pending, accepted, rejected], date, client_id, item_id)
	- orders (order_id, order_quantity, platform_margin, maalem_net, delivery_fee, final_price, final_paid, order_date, pickup_address, delivery_address, pickup_time, delivery_time, status [pickedUp, delivered, cash_collected, maalem_paid, returned], offer_id)
	- likes (client_reaction_id, client_id, item_id, created_at)
	- comments (client_reaction_id, text, client_id, item_id, created_at)
	- notifications (notification_id, message, is_read, created_at, recipient_type [client, maalem], recipient_id)
	`
}
