package saga

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestSaga_Execute_Success 测试所有步骤成功的场景
func TestSaga_Execute_Success(t *testing.T) {
	executed := make([]string, 0)

	sg := NewSaga(5 * time.Second)

	// 步骤1：扣减图书A库存
	sg.AddStep("扣减图书A库存",
		func(ctx context.Context) error {
			executed = append(executed, "扣减A")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "回滚A")
			return nil
		},
	)

	// 步骤2：落库订单
	sg.AddStep("落库订单",
		func(ctx context.Context) error {
			executed = append(executed, "落库订单")
			return nil
		},
		nil, // 最后一步无需补偿
	)

	err := sg.Execute(context.Background())
	if err != nil {
		t.Fatalf("Saga执行失败: %v", err)
	}

	// 验证执行顺序
	if len(executed) != 2 {
		t.Errorf("期望执行2个步骤，实际执行%d个", len(executed))
	}
	if executed[0] != "扣减A" || executed[1] != "落库订单" {
		t.Errorf("执行顺序错误: %v", executed)
	}
}

// TestSaga_Execute_FailureAndCompensate 测试步骤失败触发逆序补偿
func TestSaga_Execute_FailureAndCompensate(t *testing.T) {
	executed := make([]string, 0)

	sg := NewSaga(5 * time.Second)

	sg.AddStep("扣减图书A库存",
		func(ctx context.Context) error {
			executed = append(executed, "扣减A")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "回滚A")
			return nil
		},
	)

	sg.AddStep("扣减图书B库存",
		func(ctx context.Context) error {
			executed = append(executed, "扣减B")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "回滚B")
			return nil
		},
	)

	// 步骤3：扣减图书C库存（失败，模拟库存不足）
	sg.AddStep("扣减图书C库存",
		func(ctx context.Context) error {
			executed = append(executed, "扣减C")
			return errors.New("库存不足")
		},
		func(ctx context.Context) error {
			executed = append(executed, "回滚C")
			return nil
		},
	)

	err := sg.Execute(context.Background())
	if err == nil {
		t.Fatal("Saga应该失败但返回成功")
	}

	// 验证执行顺序：正向3步 + 补偿2步（逆序，失败的步骤本身不补偿）
	expected := []string{"扣减A", "扣减B", "扣减C", "回滚B", "回滚A"}

	if len(executed) != len(expected) {
		t.Fatalf("期望执行%d个步骤，实际执行%d个: %v", len(expected), len(executed), executed)
	}
	for i, step := range expected {
		if executed[i] != step {
			t.Errorf("步骤%d期望'%s'，实际'%s'", i, step, executed[i])
		}
	}
}

// TestSaga_Execute_PreservesCause 测试原始错误保留在错误链中
func TestSaga_Execute_PreservesCause(t *testing.T) {
	cause := errors.New("库存不足")

	sg := NewSaga(5 * time.Second)
	sg.AddStep("扣减库存",
		func(ctx context.Context) error { return cause },
		nil,
	)

	err := sg.Execute(context.Background())
	if err == nil {
		t.Fatal("期望失败")
	}

	// errors.Is必须能穿透Saga的包装找到原始错误
	if !errors.Is(err, cause) {
		t.Errorf("原始错误未保留在错误链中: %v", err)
	}
}

// TestSaga_Execute_CompensationFailure 测试补偿失败返回CompensationError
func TestSaga_Execute_CompensationFailure(t *testing.T) {
	sg := NewSaga(5 * time.Second)

	sg.AddStep("扣减图书A库存",
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error { return errors.New("回滚失败") },
	)

	sg.AddStep("扣减图书B库存",
		func(ctx context.Context) error { return errors.New("库存不足") },
		nil,
	)

	err := sg.Execute(context.Background())
	if err == nil {
		t.Fatal("期望失败")
	}

	var cerr *CompensationError
	if !errors.As(err, &cerr) {
		t.Fatalf("期望CompensationError，实际: %T %v", err, err)
	}
	if len(cerr.Failed) != 1 || cerr.Failed[0] != "扣减图书A库存" {
		t.Errorf("补偿失败步骤记录错误: %v", cerr.Failed)
	}
}

// TestSaga_Execute_Timeout 测试超时触发补偿
func TestSaga_Execute_Timeout(t *testing.T) {
	compensated := false

	sg := NewSaga(50 * time.Millisecond)

	sg.AddStep("扣减库存",
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error {
			compensated = true
			return nil
		},
	)

	// 第二步耗时超过整体超时
	sg.AddStep("慢操作",
		func(ctx context.Context) error {
			time.Sleep(100 * time.Millisecond)
			return nil
		},
		nil,
	)

	// 第三步永远不应该执行
	executed3 := false
	sg.AddStep("不应执行",
		func(ctx context.Context) error {
			executed3 = true
			return nil
		},
		nil,
	)

	err := sg.Execute(context.Background())
	if err == nil {
		t.Fatal("期望超时失败")
	}

	if !compensated {
		t.Error("超时后应该执行已完成步骤的补偿")
	}
	if executed3 {
		t.Error("超时后不应继续执行后续步骤")
	}
}
