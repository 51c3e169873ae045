package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/akmonengine/tether"
	"github.com/akmonengine/tether/actor"
	"github.com/akmonengine/tether/geometry"
	"github.com/akmonengine/tether/mesh"
	"github.com/akmonengine/tether/verlet"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	segments      = 8
	segmentLength = 0.5
	frames        = 120
)

// rope builds segments cylinders laid end to end along X
func rope() ([]*mesh.Mesh, error) {
	piece, err := mesh.Cylinder(segmentLength, 0.08, 12)
	if err != nil {
		return nil, err
	}

	// lay the cylinder along X
	rotation := mgl64.HomogRotate3DY(mgl64.DegToRad(90))

	meshes := make([]*mesh.Mesh, segments)
	for i := range meshes {
		m := piece.Clone()
		offset := mgl64.Vec3{float64(i) * segmentLength, 0, 0}
		for v := range m.Vertices {
			m.Vertices[v].Position = mgl64.TransformCoordinate(m.Vertices[v].Position, rotation).Add(offset)
		}
		m.RecomputeNormals()
		meshes[i] = m
	}

	return meshes, nil
}

func SetupScene(engine *tether.Engine) (*actor.PhysicsObject, *verlet.SoftBody, error) {
	box, err := mesh.Box(mgl64.Vec3{10, 1, 10}, 8)
	if err != nil {
		return nil, nil, err
	}
	floor := actor.NewPhysicsObject(actor.NewTransformAt(mgl64.Vec3{0, -3, 0}), actor.NewMeshFromBuffers(box), actor.ModeStatic)
	engine.AddPhysicsObject(floor)

	ball := actor.NewPhysicsObject(actor.NewTransformAt(mgl64.Vec3{0, 1, 0}), &actor.Sphere{Radius: 0.5}, actor.ModeDynamic)
	ball.SetCollisionListener(actor.CollisionListenerFunc(func(self, other *actor.PhysicsObject, contacts *geometry.Contacts) {
		fmt.Printf("ball hit the floor: %d contacts\n", contacts.Len())
	}))
	engine.AddPhysicsObject(ball)

	meshes, err := rope()
	if err != nil {
		return nil, nil, err
	}
	// the first segment is pinned
	body, err := engine.NewSoftBody(actor.NewTransformAt(mgl64.Vec3{0, 2, 0}), verlet.BindPerMesh, []int{0}, meshes...)
	if err != nil {
		return nil, nil, err
	}

	return ball, body, nil
}

func main() {
	path := "physics.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := tether.LoadConfig(path)
	if err != nil {
		log.Fatal(err)
	}

	engine := tether.NewEngine(cfg)
	ball, body, err := SetupScene(engine)
	if err != nil {
		log.Fatal(err)
	}

	var tipY float64
	body.Consumer = verlet.BufferConsumerFunc(func(meshes []*mesh.Mesh) {
		tipY = meshes[len(meshes)-1].Center().Y()
	})

	thread := tether.NewPhysicsThread(engine, cfg)
	thread.Start()

	dt := 1.0 / 60.0
	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	for frame := 0; frame < frames; frame++ {
		<-ticker.C
		engine.Update(dt)

		if frame%20 == 0 {
			fmt.Printf("frame %3d: ball %v, rope tip y %.3f\n", frame, ball.Transform.Position, tipY)
		}
	}
	ticker.Stop()

	thread.Stop()
	engine.Shutdown()
}
