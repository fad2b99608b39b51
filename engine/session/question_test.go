package session

import (
	"strings"
	"testing"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/types"
)

func TestNeedsQuantityQuestion(t *testing.T) {
	tests := []struct {
		name   string
		intent *types.SellIntent
		maxQty int
		want   bool
	}{
		{"nil intent", nil, 5, false},
		{"ambiguous intent", &types.SellIntent{Ambiguous: true}, 5, false},
		{"single unit held", &types.SellIntent{ItemID: "healing_potion"}, 1, false},
		{"explicit quantity", &types.SellIntent{ItemID: "healing_potion", Qty: 3}, 5, false},
		{"sell all marker", &types.SellIntent{ItemID: "healing_potion", SellAll: true}, 5, false},
		{"one by one marker", &types.SellIntent{ItemID: "healing_potion", OneByOne: true}, 5, false},
		{"underspecified", &types.SellIntent{ItemID: "healing_potion"}, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsQuantityQuestion(tt.intent, tt.maxQty); got != tt.want {
				t.Errorf("NeedsQuantityQuestion = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProposeQuantityOptions(t *testing.T) {
	s := Start("garrick", "sell")
	in := &types.SellIntent{ItemID: "healing_potion", ItemName: "Healing Potion"}
	ProposeQuantityOptions(&s, in, 5)

	q := s.PendingQuestion
	if q == nil {
		t.Fatal("no pending question attached")
	}
	if q.Type != "quantity_choice" || q.ItemID != "healing_potion" || q.Max != 5 {
		t.Errorf("question = %+v", q)
	}
	if len(q.Options) != 4 {
		t.Fatalf("len(Options) = %d, want 4", len(q.Options))
	}
	wantIDs := []string{ChoiceSellAll, ChoiceSetQty, ChoiceSellOne, ChoiceCancel}
	for i, want := range wantIDs {
		if q.Options[i].ID != want {
			t.Errorf("Options[%d].ID = %q, want %q", i, q.Options[i].ID, want)
		}
	}
	if last := s.Transcript[len(s.Transcript)-1]; !strings.Contains(last, "How many") {
		t.Errorf("transcript = %q, want the question text", last)
	}
}

func TestApplyQuantityChoice(t *testing.T) {
	cat := testCatalog()
	in := &types.SellIntent{ItemID: "healing_potion", ItemName: "Healing Potion"}

	start := func() types.TradeSession {
		s := Start("garrick", "sell")
		ProposeQuantityOptions(&s, in, 5)
		return s
	}

	t.Run("sell all", func(t *testing.T) {
		s := start()
		if err := ApplyQuantityChoice(&s, cat, nil, ChoiceSellAll, 0); err != nil {
			t.Fatalf("ApplyQuantityChoice: %v", err)
		}
		if len(s.Cart) != 1 || s.Cart[0].Qty != 5 {
			t.Errorf("Cart = %+v, want qty 5", s.Cart)
		}
		if s.PendingQuestion != nil {
			t.Error("question still pending")
		}
		if s.Status != types.StatusConfirming {
			t.Errorf("Status = %q, want confirming", s.Status)
		}
	})

	t.Run("set qty clamps to max", func(t *testing.T) {
		s := start()
		if err := ApplyQuantityChoice(&s, cat, nil, ChoiceSetQty, 40); err != nil {
			t.Fatalf("ApplyQuantityChoice: %v", err)
		}
		if s.Cart[0].Qty != 5 {
			t.Errorf("Qty = %d, want clamped to 5", s.Cart[0].Qty)
		}
		if s.Status != types.StatusConfirming {
			t.Errorf("Status = %q, want confirming", s.Status)
		}
	})

	t.Run("sell one", func(t *testing.T) {
		s := start()
		if err := ApplyQuantityChoice(&s, cat, nil, ChoiceSellOne, 0); err != nil {
			t.Fatalf("ApplyQuantityChoice: %v", err)
		}
		if s.Cart[0].Qty != 1 {
			t.Errorf("Qty = %d, want 1", s.Cart[0].Qty)
		}
		if s.Status != types.StatusConfirming {
			t.Errorf("Status = %q, want confirming", s.Status)
		}
	})

	t.Run("cancel", func(t *testing.T) {
		s := start()
		if err := ApplyQuantityChoice(&s, cat, nil, ChoiceCancel, 0); err != nil {
			t.Fatalf("ApplyQuantityChoice: %v", err)
		}
		if s.PendingQuestion != nil || len(s.Cart) != 0 {
			t.Errorf("cancel left cart %v, question %v", s.Cart, s.PendingQuestion)
		}
		if s.Status != types.StatusAborted {
			t.Errorf("Status = %q, want aborted", s.Status)
		}
	})

	t.Run("unknown option keeps question", func(t *testing.T) {
		s := start()
		if err := ApplyQuantityChoice(&s, cat, nil, "haggle", 0); err == nil {
			t.Fatal("unknown option accepted")
		}
		if s.PendingQuestion == nil {
			t.Error("question dropped on unknown option")
		}
	})

	t.Run("nothing pending is a no-op", func(t *testing.T) {
		s := Start("garrick", "sell")
		if err := ApplyQuantityChoice(&s, cat, nil, ChoiceSellAll, 0); err != nil {
			t.Fatalf("ApplyQuantityChoice: %v", err)
		}
		if len(s.Cart) != 0 {
			t.Errorf("no-op added to cart: %v", s.Cart)
		}
		if last := s.Transcript[len(s.Transcript)-1]; !strings.Contains(last, "Nothing pending") {
			t.Errorf("transcript = %q, want nothing-pending note", last)
		}
	})
}

func TestQuestionFromIntent(t *testing.T) {
	cat := testCatalog()

	t.Run("explicit quantity goes straight to the cart", func(t *testing.T) {
		s := Start("garrick", "sell")
		in := &types.SellIntent{ItemID: "apprentice_sword", Qty: 3}
		if err := QuestionFromIntent(&s, cat, nil, in, 8); err != nil {
			t.Fatalf("QuestionFromIntent: %v", err)
		}
		if s.PendingQuestion != nil {
			t.Error("question raised despite explicit quantity")
		}
		if len(s.Cart) != 1 || s.Cart[0].Qty != 3 {
			t.Errorf("Cart = %+v, want qty 3", s.Cart)
		}
	})

	t.Run("sell all skips the question", func(t *testing.T) {
		s := Start("garrick", "sell")
		in := &types.SellIntent{ItemID: "apprentice_sword", SellAll: true}
		if err := QuestionFromIntent(&s, cat, nil, in, 8); err != nil {
			t.Fatalf("QuestionFromIntent: %v", err)
		}
		if len(s.Cart) != 1 || s.Cart[0].Qty != 8 {
			t.Errorf("Cart = %+v, want the whole lot of 8", s.Cart)
		}
	})

	t.Run("quantity capped at holdings", func(t *testing.T) {
		s := Start("garrick", "sell")
		in := &types.SellIntent{ItemID: "apprentice_sword", Qty: 50}
		if err := QuestionFromIntent(&s, cat, nil, in, 8); err != nil {
			t.Fatalf("QuestionFromIntent: %v", err)
		}
		if s.Cart[0].Qty != 8 {
			t.Errorf("Qty = %d, want capped at 8", s.Cart[0].Qty)
		}
	})

	t.Run("underspecified raises the question", func(t *testing.T) {
		s := Start("garrick", "sell")
		in := &types.SellIntent{ItemID: "apprentice_sword", ItemName: "Apprentice Sword"}
		if err := QuestionFromIntent(&s, cat, nil, in, 8); err != nil {
			t.Fatalf("QuestionFromIntent: %v", err)
		}
		if s.PendingQuestion == nil {
			t.Fatal("no question raised")
		}
		if s.PendingQuestion.Max != 8 {
			t.Errorf("Max = %d, want 8", s.PendingQuestion.Max)
		}
	})
}
